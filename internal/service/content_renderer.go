package service

import (
	"bytes"
	"html"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ContentRenderer turns stored markdown into sanitized HTML and strips markup from
// plain-text fields such as comments.
type ContentRenderer struct {
	markdown goldmark.Markdown
	html     *bluemonday.Policy
	text     *bluemonday.Policy
}

// NewContentRenderer builds a renderer with GitHub flavoured markdown enabled.
func NewContentRenderer() *ContentRenderer {
	return &ContentRenderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		html:     bluemonday.UGCPolicy(),
		text:     bluemonday.StrictPolicy(),
	}
}

// RenderMarkdown 渲染 Markdown 并通过 UGC 策略过滤，渲染失败时退回转义后的原文。
func (r *ContentRenderer) RenderMarkdown(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		log.Printf("[RENDER] markdown conversion failed: %v", err)
		return r.text.Sanitize(source)
	}
	return r.html.Sanitize(buf.String())
}

// StripHTML removes all markup from user supplied text. The result is plain text,
// so the entities bluemonday emits are decoded again.
func (r *ContentRenderer) StripHTML(input string) string {
	return strings.TrimSpace(html.UnescapeString(r.text.Sanitize(input)))
}
