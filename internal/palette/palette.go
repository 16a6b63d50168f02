package palette

import (
	"fmt"
	"os"
	"strings"
)

// Palette is the file backed color source. Entries are either direct
// definitions ("windowFg: #000000;") or aliases of an earlier or
// later entry ("msgInBg: windowBg;").
type Palette struct {
	colors map[string]*Color
	order  []string
}

func LoadFile(path string) (*Palette, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(src, path)
}

func Load(src []byte, filename string) (*Palette, error) {
	p := &Palette{colors: make(map[string]*Color)}

	aliases := make(map[string]string)
	aliasLine := make(map[string]int)

	for lineno, raw := range strings.Split(string(src), "\n") {
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.HasSuffix(line, ";") {
			return nil, fmt.Errorf("%s:%d: expected ';' at end of palette entry", filename, lineno+1)
		}
		line = strings.TrimSuffix(line, ";")

		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%s:%d: expected 'name: value;' palette entry", filename, lineno+1)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return nil, fmt.Errorf("%s:%d: empty name or value in palette entry", filename, lineno+1)
		}

		_, definedColor := p.colors[name]
		_, definedAlias := aliases[name]
		if definedColor || definedAlias {
			return nil, fmt.Errorf("%s:%d: color '%s' defined twice", filename, lineno+1, name)
		}

		if strings.HasPrefix(value, "#") {
			color, err := Parse(name, value)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %v", filename, lineno+1, err)
			}
			p.colors[name] = color
		} else {
			aliases[name] = value
			aliasLine[name] = lineno + 1
		}
		p.order = append(p.order, name)
	}

	for name := range aliases {
		target, err := p.followAlias(name, aliases)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", filename, aliasLine[name], err)
		}
		resolved := *target
		resolved.Name = name
		p.colors[name] = &resolved
	}

	return p, nil
}

func (p *Palette) followAlias(name string, aliases map[string]string) (*Color, error) {
	visited := make(map[string]bool)
	current := name

	for {
		if visited[current] {
			return nil, fmt.Errorf("alias cycle involving color '%s'", name)
		}
		visited[current] = true

		next, isAlias := aliases[current]
		if !isAlias {
			color, ok := p.colors[current]
			if !ok {
				return nil, fmt.Errorf("color '%s' references undefined color '%s'", name, current)
			}
			return color, nil
		}
		current = next
	}
}

func (p *Palette) ResolveColor(name string) (*Color, bool) {
	color, ok := p.colors[name]
	return color, ok
}

func (p *Palette) Len() int {
	return len(p.order)
}

// Names returns color names in file order.
func (p *Palette) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}
