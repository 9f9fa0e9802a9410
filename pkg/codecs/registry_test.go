package codecs

import (
	"testing"

	"github.com/user/framepull/pkg/mocks"
	"github.com/user/framepull/pkg/ports"
)

func newMock() ports.AsyncCodec { return &mocks.AsyncCodec{} }

func names(candidates []Candidate) []string {
	var out []string
	for _, c := range candidates {
		out = append(out, c.Name)
	}
	return out
}

func TestFindMatching_RegistrationOrder(t *testing.T) {
	mediaType := "video/test-reg-order"
	Register(Candidate{Name: "order-first", MediaTypes: []string{mediaType}, New: newMock})
	Register(Candidate{Name: "order-second", MediaTypes: []string{mediaType}, New: newMock})

	got := names(FindMatching(mediaType, Constraints{}))
	want := []string{"order-first", "order-second"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFindMatching_MediaTypeFilter(t *testing.T) {
	Register(Candidate{
		Name:       "filter-avc",
		MediaTypes: []string{"video/test-filter-avc"},
		New:        newMock,
	})

	if got := FindMatching("video/test-filter-other", Constraints{PreferredName: "filter-avc"}); len(got) != 0 {
		t.Errorf("expected no match for a foreign media type, got %v", names(got))
	}
	if got := FindMatching("video/test-filter-avc", Constraints{PreferredName: "filter-avc"}); len(got) != 1 {
		t.Errorf("expected one match, got %v", names(got))
	}
}

func TestFindMatching_EmptyMediaTypesAcceptsAny(t *testing.T) {
	Register(Candidate{Name: "filter-any", New: newMock})

	got := FindMatching("video/test-filter-wildcard", Constraints{PreferredName: "filter-any"})
	if len(got) != 1 {
		t.Fatalf("expected the wildcard candidate to match, got %v", names(got))
	}
}

func TestFindMatching_PreferredName(t *testing.T) {
	mediaType := "video/test-preferred"
	Register(Candidate{Name: "pref-a", MediaTypes: []string{mediaType}, New: newMock})
	Register(Candidate{Name: "pref-b", MediaTypes: []string{mediaType}, New: newMock})

	got := names(FindMatching(mediaType, Constraints{PreferredName: "pref-b"}))
	if len(got) != 1 || got[0] != "pref-b" {
		t.Fatalf("expected only pref-b, got %v", got)
	}

	if got := FindMatching(mediaType, Constraints{PreferredName: "no-such-codec"}); len(got) != 0 {
		t.Errorf("expected no match for an unknown name, got %v", names(got))
	}
}
