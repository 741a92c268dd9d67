// Package theme holds the named colour palettes a user can pick from.
package theme

import "strings"

// Default is used when no theme is stored or a stored name is unknown.
const Default = "midnight-glass"

// Palette is a theme's colours as hex strings.
type Palette struct {
	Background string
	Accent     string
	Text       string
	Muted      string
}

// palettes is in display order.
var palettes = []struct {
	name    string
	palette Palette
}{
	{"midnight-glass", Palette{"#0b1220", "#60a5fa", "#e7efff", "#9db3d9"}},
	{"clean-pro", Palette{"#0b0e11", "#22d3ee", "#e6f7ff", "#9ad1de"}},
	{"ivory-gold-luxe", Palette{"#0e0e0c", "#f5d483", "#fff8e7", "#e6d6b3"}},
	{"carbon-neon", Palette{"#0a0a0a", "#22ff88", "#d9fbe7", "#9bf2c3"}},
	{"deep-purple", Palette{"#0d0716", "#a78bfa", "#efe9ff", "#b9a9f3"}},
	{"forest-emerald", Palette{"#071410", "#10b981", "#dbfff0", "#94dbc0"}},
	{"rose-quartz", Palette{"#140d11", "#fb7185", "#ffe6eb", "#f2b9c1"}},
	{"sunset-gold", Palette{"#120e09", "#f59e0b", "#fff2d9", "#e9c89a"}},
	{"ocean-breeze", Palette{"#07131a", "#38bdf8", "#e6f7ff", "#a7d7f3"}},
	{"matte-black", Palette{"#0a0b0c", "#9ca3af", "#e5e7eb", "#aeb3bb"}},
	{"slate-gray", Palette{"#0c0f12", "#94a3b8", "#e2e8f0", "#a8b0bd"}},
	{"mocha", Palette{"#110c09", "#d6a676", "#fff1e2", "#cfbaaa"}},
	{"arctic-ice", Palette{"#0b1014", "#67e8f9", "#e6fbff", "#b7e8f2"}},
	{"neon-pop", Palette{"#070b0f", "#22d3ee", "#e5faff", "#b8d4ff"}},
	{"royal-indigo", Palette{"#0a0a1a", "#7c3aed", "#ecebff", "#b9b4f2"}},
	{"copper-sand", Palette{"#0f0d0b", "#e07a5f", "#fff3e6", "#ddc3a6"}},
	{"aurora", Palette{"#0b0e1a", "#34d399", "#e9faff", "#b0d4ff"}},
	{"jade-mist", Palette{"#081311", "#2dd4bf", "#dcfffb", "#a6e9df"}},
	{"obsidian", Palette{"#070707", "#22c55e", "#f1f5f9", "#9aa6b2"}},
	{"paper-white", Palette{"#0c0d0f", "#ffffff", "#f8fafc", "#cbd5e1"}},
}

// Names returns every theme name in display order.
func Names() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.name
	}
	return names
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Resolve returns name when it is a known theme and Default otherwise.
func Resolve(name string) string {
	name = strings.TrimSpace(name)
	if Valid(name) {
		return name
	}
	return Default
}

// PaletteFor returns the palette of name, falling back to Default.
func PaletteFor(name string) Palette {
	if p, ok := lookup(name); ok {
		return p
	}
	p, _ := lookup(Default)
	return p
}

func lookup(name string) (Palette, bool) {
	for _, p := range palettes {
		if p.name == name {
			return p.palette, true
		}
	}
	return Palette{}, false
}
