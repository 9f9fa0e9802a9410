package mp4source

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framepull/pkg/ports"
)

// extractTrack parses MP4 data and flattens the video track into a sample
// table with presentation times in microseconds.
func extractTrack(data []byte) (ports.Format, []sample, error) {
	mp4File, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return ports.Format{}, nil, fmt.Errorf("decode mp4: %w", err)
	}

	if !mp4File.IsFragmented() {
		return ports.Format{}, nil, fmt.Errorf("progressive MP4 not supported, use fragmented MP4")
	}

	// Find the video track, its timescale and its trex.
	var videoTrackID uint32
	var timescale uint32 = 1000
	var trex *mp4.TrexBox
	var format ports.Format

	if mp4File.Init != nil && mp4File.Init.Moov != nil {
		for _, trak := range mp4File.Init.Moov.Traks {
			if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
				continue
			}
			videoTrackID = trak.Tkhd.TrackID
			if trak.Mdia.Mdhd != nil {
				timescale = trak.Mdia.Mdhd.Timescale
			}
			format = formatFromTrack(trak)
			break
		}
		if mp4File.Init.Moov.Mvex != nil {
			for _, t := range mp4File.Init.Moov.Mvex.Trexs {
				if t.TrackID == videoTrackID {
					trex = t
					break
				}
			}
		}
	}

	if videoTrackID == 0 {
		return ports.Format{}, nil, fmt.Errorf("no video track found")
	}
	if format.MediaType == "" {
		return ports.Format{}, nil, fmt.Errorf("unsupported video codec")
	}

	var samples []sample
	var totalDur uint64

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}

			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != videoTrackID {
					continue
				}

				var baseDecodeTime uint64
				if traf.Tfdt != nil {
					baseDecodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}

				full, err := frag.GetFullSamples(trex)
				if err != nil {
					return ports.Format{}, nil, fmt.Errorf("get samples: %w", err)
				}

				currentTime := baseDecodeTime
				for _, fs := range full {
					samples = append(samples, sample{
						data:   fs.Data,
						timeUs: int64(currentTime * 1000000 / uint64(timescale)),
						sync:   fs.Flags == mp4.SyncSampleFlags,
					})
					currentTime += uint64(fs.Dur)
					totalDur += uint64(fs.Dur)
				}
			}
		}
	}

	if totalDur > 0 {
		format.FrameRate = float64(len(samples)) * float64(timescale) / float64(totalDur)
	}
	return format, samples, nil
}

func formatFromTrack(trak *mp4.TrakBox) ports.Format {
	var format ports.Format

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return format
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			format.MediaType = ports.MediaTypeH264
		case "hvc1", "hev1":
			format.MediaType = ports.MediaTypeHEVC
		case "av01":
			format.MediaType = ports.MediaTypeAV1
		default:
			continue
		}

		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			format.Width = int(vse.Width)
			format.Height = int(vse.Height)
		}
		break
	}
	return format
}
