// Package pipeline runs a blend between image files: it loads both inputs,
// blends or pastes, repeats the run when asked, and saves the result.
package pipeline

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/ironsheep/poisson-blend/internal/blend"
	"github.com/ironsheep/poisson-blend/internal/cli"
	"github.com/ironsheep/poisson-blend/internal/imaging"
)

// Report is the outcome of Run. Timings are averaged over all repeats; the
// image and statistics come from the last run.
type Report struct {
	Image    *image.RGBA
	Pasted   bool
	Runs     int
	Elapsed  time.Duration
	Channels []blend.ChannelStat
	Stats    blend.Stats
	SavedTo  string
}

// Run executes cfg. Images are loaded through cache, so repeated runs reuse
// the decoded inputs. logf receives the blend progress messages and may be nil.
func Run(cfg cli.Config, cache *imaging.ImageCache, logf func(string)) (*Report, error) {
	base, err := cache.Load(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load base image: %w", err)
	}
	overlay, err := cache.Load(cfg.OverlayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay image: %w", err)
	}

	runs := cfg.Repeat
	if runs < 1 {
		runs = 1
	}

	rep := &Report{Pasted: cfg.Paste, Runs: runs}
	if cfg.Paste {
		start := time.Now()
		for i := 0; i < runs; i++ {
			if rep.Image, err = blend.Paste(base, overlay, cfg.Insert, cfg.Polygon); err != nil {
				return nil, err
			}
		}
		rep.Elapsed = time.Since(start) / time.Duration(runs)
	} else {
		opts := cfg.Blend
		opts.Log = logf
		for i := 0; i < runs; i++ {
			res, err := blend.Blend(base, overlay, cfg.Insert, cfg.Polygon, opts)
			if err != nil {
				return nil, err
			}
			rep.accumulate(res)
		}
		rep.average()
	}

	if cfg.Save {
		if err := imaging.Save(rep.Image, cfg.OutPath); err != nil {
			return nil, err
		}
		rep.SavedTo = imaging.ExpandPath(cfg.OutPath)
	}
	return rep, nil
}

func (r *Report) accumulate(res *blend.Result) {
	r.Image = res.Image
	r.Stats = res.Stats
	r.Elapsed += res.Elapsed
	if r.Channels == nil {
		r.Channels = append([]blend.ChannelStat(nil), res.Channels...)
		return
	}
	for i, c := range res.Channels {
		r.Channels[i].Elapsed += c.Elapsed
		r.Channels[i].Iterations += c.Iterations
	}
}

func (r *Report) average() {
	n := time.Duration(r.Runs)
	r.Elapsed /= n
	for i := range r.Channels {
		r.Channels[i].Elapsed /= n
		r.Channels[i].Iterations /= r.Runs
	}
}

// Summary renders the report as human-readable lines.
func (r *Report) Summary() []string {
	var lines []string
	if r.Runs > 1 {
		lines = append(lines, fmt.Sprintf("Runs: %d (timings averaged)", r.Runs))
	}
	if r.Pasted {
		lines = append(lines, fmt.Sprintf("Time: %dms (pasted without blending)", r.Elapsed.Milliseconds()))
	} else {
		lines = append(lines, fmt.Sprintf("Time: %dms", r.Elapsed.Milliseconds()))
		for _, c := range r.Channels {
			lines = append(lines, fmt.Sprintf("Time for %s: %dms (%d iterations)", c.Name, c.Elapsed.Milliseconds(), c.Iterations))
		}
		s := r.Stats
		lines = append(lines,
			fmt.Sprintf("Change: border %.2f%% ; interior %.2f%%", s.BorderChange*100, s.CoreChange*100),
			"Average border base: "+formatChannels(s.Channels, s.BorderBase),
			"Average border result: "+formatChannels(s.Channels, s.BorderSolved),
			"Average interior overlay: "+formatChannels(s.Channels, s.CoreOverlay),
			"Average interior result: "+formatChannels(s.Channels, s.CoreSolved),
		)
	}
	if r.SavedTo != "" {
		lines = append(lines, "Saved: "+r.SavedTo)
	}
	return lines
}

func formatChannels(names []string, values []float64) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %.2f", name, values[i])
	}
	return strings.Join(parts, ", ")
}
