// Package notion wraps the Notion API for page ingestion.
package notion

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// Page is a normalized Notion page ready for ingestion.
type Page struct {
	ID             string
	Title          string
	Content        string
	URL            string
	LastEditedTime time.Time
	Author         string
}

// Client fetches and normalizes Notion content.
type Client struct {
	search notionapi.SearchService
	block  notionapi.BlockService
}

func NewClient(apiKey string) *Client {
	api := notionapi.NewClient(notionapi.Token(apiKey))
	return &Client{search: api.Search, block: api.Block}
}

func NewClientWithServices(search notionapi.SearchService, block notionapi.BlockService) *Client {
	return &Client{search: search, block: block}
}

// FetchPages lists all pages visible to the integration and extracts their
// text content. Pages whose extraction yields no text are skipped.
func (c *Client) FetchPages(ctx context.Context) ([]Page, error) {
	resp, err := c.search.Do(ctx, &notionapi.SearchRequest{
		Filter: notionapi.SearchFilter{
			Property: "object",
			Value:    "page",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}

	pages := make([]Page, 0, len(resp.Results))
	for _, obj := range resp.Results {
		page, ok := obj.(*notionapi.Page)
		if !ok {
			continue
		}

		content, err := c.extractPageContent(ctx, page.ID)
		if err != nil {
			log.Printf("notion: failed to extract content for %s: %v", page.ID, err)
			continue
		}
		if content == "" {
			continue
		}

		pages = append(pages, Page{
			ID:             string(page.ID),
			Title:          extractTitle(page),
			Content:        content,
			URL:            page.URL,
			LastEditedTime: page.LastEditedTime,
			Author:         extractAuthor(page),
		})
	}

	return pages, nil
}

func (c *Client) extractPageContent(ctx context.Context, pageID notionapi.ObjectID) (string, error) {
	resp, err := c.block.GetChildren(ctx, notionapi.BlockID(pageID), nil)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Results {
		text := extractTextFromBlock(block)
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func extractTextFromBlock(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return plainText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return plainText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return plainText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return plainText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return plainText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return plainText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return plainText(b.ToDo.RichText)
	case *notionapi.CodeBlock:
		return plainText(b.Code.RichText)
	default:
		return ""
	}
}

func plainText(richText []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}

func extractTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if text := plainText(title.Title); text != "" {
				return text
			}
		}
	}
	return "Untitled"
}

func extractAuthor(page *notionapi.Page) string {
	if page.LastEditedBy.Name != "" {
		return page.LastEditedBy.Name
	}
	if page.LastEditedBy.ID != "" {
		return string(page.LastEditedBy.ID)
	}
	if page.CreatedBy.Name != "" {
		return page.CreatedBy.Name
	}
	if page.CreatedBy.ID != "" {
		return string(page.CreatedBy.ID)
	}
	return "Unknown"
}
