package packaging

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed templates/*.tmpl
var embeddedFS embed.FS

// Render substitutes values into the {name} placeholders of text.
// "{{" and "}}" produce literal braces. There are no conditionals, loops or
// format specifiers; a placeholder is the exact text between the braces.
func Render(name, text string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(text[i+1:], "{}")
			if end < 0 || text[i+1+end] != '}' {
				return "", &TemplateError{Template: name, Reason: "unmatched '{' in format string"}
			}
			key := text[i+1 : i+1+end]
			if key == "" {
				return "", &TemplateError{Template: name, Reason: "empty placeholder"}
			}
			value, ok := values[key]
			if !ok {
				return "", &TemplateError{Template: name, Key: key}
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", &TemplateError{Template: name, Reason: "single '}' encountered in format string"}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// dirTemplates reads templates from a directory on disk.
type dirTemplates struct {
	dir string
}

// DirTemplates returns a TemplateSource reading <dir>/<name>.
func DirTemplates(dir string) TemplateSource {
	return dirTemplates{dir: dir}
}

func (d dirTemplates) Template(name string) (string, error) {
	p := filepath.Join(d.dir, name)
	data, err := os.ReadFile(p)
	if err != nil {
		return "", &FilesystemError{Op: "read template", Path: p, Err: err}
	}
	return string(data), nil
}

// embeddedTemplates serves the templates compiled into the binary.
type embeddedTemplates struct{}

// EmbeddedTemplates returns a TemplateSource over the packaged default templates.
func EmbeddedTemplates() TemplateSource {
	return embeddedTemplates{}
}

func (embeddedTemplates) Template(name string) (string, error) {
	p := path.Join("templates", name)
	data, err := fs.ReadFile(embeddedFS, p)
	if err != nil {
		return "", &FilesystemError{Op: "read template", Path: p, Err: err}
	}
	return string(data), nil
}
