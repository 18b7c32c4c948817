package emitter

import (
	"fmt"
	"path"

	"golang.org/x/tools/txtar"

	"github.com/erraggy/oasmcp/generator"
)

// Archive renders every unit into a single txtar archive, the plain-text
// multi-file format used by Go tooling. Each file name is prefixed with its
// unit name, so the archive can be reviewed or unpacked without emitting.
func Archive(units []*generator.Unit, includeTests bool) ([]byte, error) {
	ar := &txtar.Archive{
		Comment: []byte(fmt.Sprintf("%d generated adapter(s)\n", len(units))),
	}
	for i, u := range units {
		if u == nil {
			return nil, fmt.Errorf("emitter: unit %d is nil", i)
		}
		files, err := Render(u, includeTests)
		if err != nil {
			return nil, fmt.Errorf("emitter: render %s: %w", u.Name, err)
		}
		for _, f := range files {
			ar.Files = append(ar.Files, txtar.File{Name: path.Join(u.Name, f.Name), Data: f.Content})
		}
	}
	return txtar.Format(ar), nil
}
