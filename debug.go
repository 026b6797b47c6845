package isobuild

import "log/slog"

// debugLog reports per-frame timing and cache stats. Only active when the
// compositor is in debug mode.
func (c *Compositor) debugLog(stats FrameStats) {
	if !c.debug {
		return
	}
	l := Logger()
	total := stats.Project + stats.Sort + stats.Emit
	l.Debug("frame",
		slog.Duration("project", stats.Project),
		slog.Duration("sort", stats.Sort),
		slog.Duration("emit", stats.Emit),
		slog.Duration("total", total),
	)
	attrs := []any{
		slog.Int("voxels", stats.Voxels),
		slog.Int("skipped", stats.Skipped),
		slog.Int("commands", stats.Commands),
		slog.Int("faces_textured", countCommands(c.commands, CommandImage)),
		slog.Float64("rotation_hit_rate", c.Projector.hitRate()),
		slog.Float64("color_hit_rate", c.Shader.HitRate()),
	}
	if c.Warper != nil {
		attrs = append(attrs,
			slog.Int("warp_entries", c.Warper.Len()),
			slog.Float64("warp_hit_rate", c.Warper.HitRate()),
		)
	}
	l.Debug("frame caches", attrs...)
}

// countCommands counts commands of the given type.
func countCommands(commands []DrawCommand, t CommandType) int {
	n := 0
	for i := range commands {
		if commands[i].Type == t {
			n++
		}
	}
	return n
}
