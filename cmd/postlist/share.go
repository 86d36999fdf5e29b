package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/dom"
	"github.com/nikbrunner/postlist/internal/share"
)

var (
	shareURL   string
	shareCopy  string
	shareWrite bool
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

var shareCmd = &cobra.Command{
	Use:   "share <file.html>",
	Short: "Print or fill in the share links of a post page",
	Long: `Resolves the post title from the page (h1.post-title, then the title
meta tag, then <title> without the site name) and prints the Twitter,
Facebook, LinkedIn and email share links for --url.

With --write the links are set on the page's share buttons
(#share-twitter, #share-facebook, #share-linkedin, #share-email) and the
file is rewritten. Pages without share buttons are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if shareURL == "" {
			return fmt.Errorf("--url is required")
		}
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading page: %w", err)
		}
		doc, err := dom.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		links := share.Build(shareURL, share.ResolveTitle(doc))
		out := cmd.OutOrStdout()
		for _, svc := range share.Services {
			link, _ := links.Get(svc)
			fmt.Fprintf(out, "%-8s %s\n", svc, link)
		}

		if shareCopy != "" {
			svc, err := share.ParseService(shareCopy)
			if err != nil {
				return err
			}
			link, _ := links.Get(svc)
			if err := copyToClipboard(link); err != nil {
				return fmt.Errorf("copying link: %w", err)
			}
			fmt.Fprintf(out, "Copied %s link\n", svc)
		}

		if !shareWrite {
			return nil
		}
		n := share.Apply(doc, shareURL)
		if n == 0 {
			fmt.Fprintln(out, "No share buttons found")
			return nil
		}
		var buf bytes.Buffer
		if err := dom.Render(&buf, doc); err != nil {
			return fmt.Errorf("rendering page: %w", err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing page: %w", err)
		}
		fmt.Fprintf(out, "Updated %d share buttons in %s\n", n, path)
		return nil
	},
}

func init() {
	shareCmd.Flags().StringVar(&shareURL, "url", "", "public URL of the page")
	shareCmd.Flags().StringVar(&shareCopy, "copy", "", "copy one link to the clipboard (twitter, facebook, linkedin, email)")
	shareCmd.Flags().BoolVar(&shareWrite, "write", false, "set the links on the page's share buttons")
	rootCmd.AddCommand(shareCmd)
}
