package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
)

// QueryRequest is the body of search and ask requests. Multipart requests
// carry the same fields as form values plus any number of "files".
type QueryRequest struct {
	Query    string `json:"query" form:"query"`
	Question string `json:"question" form:"question"`
	TopK     int    `json:"top_k" form:"top_k"`
}

// text returns the question, falling back to the query field.
func (r QueryRequest) text() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Query
}

// parseQuery reads a QueryRequest and uploaded files from c.
func parseQuery(c *fiber.Ctx) (QueryRequest, []domain.Upload, error) {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return req, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.text()) == "" {
		return req, nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if req.TopK < 0 {
		return req, nil, fmt.Errorf("%w: top_k must not be negative", domain.ErrInvalidInput)
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var uploads []domain.Upload
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return req, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return req, nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{Name: fh.Filename, Content: content})
	}
	return req, uploads, nil
}
