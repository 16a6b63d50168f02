package ast

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loc identifies a style module on disk. Path is cleaned and
// absolute so the same file reached through different using paths
// dedups to one module.
type Loc struct {
	Name string // module stem, "dialogs" for dialogs.style
	Dir  string
	Path string
}

func LocFromPath(fullPath string) (*Loc, error) {
	loc := new(Loc)

	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return nil, err
	}
	loc.Path = filepath.Clean(abs)

	info, err := os.Stat(loc.Path)
	if err != nil {
		return nil, err
	}
	if info.Mode().IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a style module", fullPath)
	}

	base := filepath.Base(loc.Path)
	loc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	loc.Dir = filepath.Dir(loc.Path)
	return loc, nil
}

func (l Loc) String() string {
	return fmt.Sprintf("Name: %s | Dir: %s | Path: %s", l.Name, l.Dir, l.Path)
}

// SourceModule is one parsed .style file.
type SourceModule struct {
	Loc     *Loc
	Imports []*UsingDecl
	Body    []*Node // type and value declarations in source order

	// Raw source, kept so later stages can render caret snippets.
	Src []byte
}

func (m *SourceModule) String() string {
	if m.Loc == nil || m.Loc.Name == "" {
		return "Name: <EMPTY>"
	}
	return fmt.Sprintf("Name: %s", m.Loc.Name)
}
