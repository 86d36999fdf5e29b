// Package source produces entry collections: from a rendered post list
// page, from a site's search index over HTTP, or by indexing the markdown
// posts of a static site.
package source
