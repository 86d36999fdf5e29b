package source

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/postlist/internal/model"
)

const (
	// DefaultInclude matches the posts of a typical static blog.
	DefaultInclude = "posts/**/*.md"
	// DefaultMaxContent caps the indexed body text, in runes.
	DefaultMaxContent = 2000
	// DefaultHrefPrefix is prepended to a post's slug to form its link.
	DefaultHrefPrefix = "/posts/"
)

// IndexOptions configures BuildIndex.
type IndexOptions struct {
	Include    []string
	MaxContent int
	HrefPrefix string
	// Progress, when set, is called after each file with the number done
	// and the total.
	Progress func(done, total int)
}

func (o IndexOptions) withDefaults() IndexOptions {
	if len(o.Include) == 0 {
		o.Include = []string{DefaultInclude}
	}
	if o.MaxContent <= 0 {
		o.MaxContent = DefaultMaxContent
	}
	if o.HrefPrefix == "" {
		o.HrefPrefix = DefaultHrefPrefix
	}
	return o
}

// frontMatter is the subset of post metadata the index uses.
type frontMatter struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
	Draft bool   `yaml:"draft"`
}

// BuildIndex indexes the markdown posts under dir.
func BuildIndex(dir string, opts IndexOptions) (*model.Store, error) {
	return BuildIndexFS(os.DirFS(dir), opts)
}

// BuildIndexFS indexes the markdown posts in fsys. Posts are ordered by
// path; drafts are skipped.
func BuildIndexFS(fsys fs.FS, opts IndexOptions) (*model.Store, error) {
	opts = opts.withDefaults()

	files, err := globAll(fsys, opts.Include)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	entries := make([]model.Entry, 0, len(files))
	for i, name := range files {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		entry, ok, err := indexPost(md, name, src, opts)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", name, err)
		}
		if ok {
			entries = append(entries, entry)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(files))
		}
	}

	return model.NewStore(entries), nil
}

func globAll(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func indexPost(md goldmark.Markdown, name string, src []byte, opts IndexOptions) (model.Entry, bool, error) {
	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return model.Entry{}, false, err
	}
	if meta.Draft {
		return model.Entry{}, false, nil
	}

	heading, content := extractText(md, body)

	slug := meta.Slug
	if slug == "" {
		slug = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	title := meta.Title
	if title == "" {
		title = heading
	}
	if title == "" {
		title = slug
	}

	return model.NewEntry(model.NewEntryParams{
		Title:   title,
		Href:    opts.HrefPrefix + slug + ".html",
		Content: truncateRunes(content, opts.MaxContent),
	}), true, nil
}

var fence = []byte("---")

// splitFrontMatter separates a leading YAML block delimited by --- lines
// from the markdown body.
func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var meta frontMatter

	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, ok := bytes.Cut(src, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimSpace(first), fence) {
		return meta, src, nil
	}

	var block []byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(line), fence) {
			if err := yaml.Unmarshal(block, &meta); err != nil {
				return meta, nil, fmt.Errorf("front matter: %w", err)
			}
			return meta, rest, nil
		}
		block = append(block, line...)
		block = append(block, '\n')
	}

	// No closing fence: treat the whole file as markdown.
	return frontMatter{}, src, nil
}

// extractText returns the first heading's text and the plain text of the
// rest of the document.
func extractText(md goldmark.Markdown, body []byte) (string, string) {
	doc := md.Parser().Parse(text.NewReader(body))

	var heading string
	var headingNode ast.Node
	var content []string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if headingNode == nil && node.Level == 1 {
				headingNode = node
				heading = strings.Join(inlineText(node, body), "")
				return ast.WalkSkipChildren, nil
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			content = append(content, string(node.Segment.Value(body)))
		case *ast.String:
			content = append(content, string(node.Value))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(heading), strings.Join(strings.Fields(strings.Join(content, " ")), " ")
}

func inlineText(n ast.Node, src []byte) []string {
	var parts []string
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			parts = append(parts, string(node.Segment.Value(src)))
		case *ast.String:
			parts = append(parts, string(node.Value))
		}
		return ast.WalkContinue, nil
	})
	return parts
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
