package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block accepted at the top of an imported blog
// post.
type FrontMatter struct {
	Title    string    `yaml:"title"`
	Summary  string    `yaml:"summary"`
	Category string    `yaml:"category"`
	Image    string    `yaml:"image"`
	Date     time.Time `yaml:"date"`
	Draft    bool      `yaml:"draft"`
}

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta, body, nil
}
