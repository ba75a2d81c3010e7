// Package recordserver serves shape records over a kintone-compatible REST surface, so the
// viewer can run against local data.
package recordserver

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"shapeview/internal/record"
)

// maxLimit is the largest page size the records API hands out.
const maxLimit = 500

// Options configure the app.
type Options struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Quiet disables request logging, e.g. in tests.
	Quiet bool
}

// Handler serves records from a store.
type Handler struct {
	store *record.Store
}

// NewHandler returns a Handler over store.
func NewHandler(store *record.Store) *Handler {
	return &Handler{store: store}
}

// New builds the Fiber app with middleware, health probes and record routes.
func New(store *record.Store, opts Options) *fiber.App {
	if opts.AppName == "" {
		opts.AppName = "Record Server"
	}
	app := fiber.New(fiber.Config{
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		AppName:      opts.AppName,
	})

	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	h := NewHandler(store)
	app.Get("/k/v1/records.json", h.ListRecords)
	app.Post("/k/v1/record.json", h.AddRecord)
	return app
}

var (
	limitRe  = regexp.MustCompile(`(?i)\blimit\s+(\d+)`)
	offsetRe = regexp.MustCompile(`(?i)\boffset\s+(\d+)`)
)

// parseQuery extracts "limit N" and "offset M" from a kintone query string. Ordering and
// conditions are ignored; records always come back in $id order. Missing limit means 100.
func parseQuery(q string) (limit, offset int) {
	limit = 100
	if m := limitRe.FindStringSubmatch(q); m != nil {
		limit, _ = strconv.Atoi(m[1])
	}
	if m := offsetRe.FindStringSubmatch(q); m != nil {
		offset, _ = strconv.Atoi(m[1])
	}
	return limit, offset
}

// ListRecords handles GET /k/v1/records.json?app=N&query=...&totalCount=true.
func (h *Handler) ListRecords(c fiber.Ctx) error {
	app, err := strconv.Atoi(c.Query("app"))
	if err != nil || app <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "app is required"})
	}
	limit, offset := parseQuery(c.Query("query"))
	if limit > maxLimit {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "limit must be 500 or less"})
	}

	ctx := context.Background()
	rows, err := h.store.List(ctx, app, limit, offset)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to list records"})
	}
	resp := record.KintoneResponse{Records: make([]record.KintoneRecord, 0, len(rows))}
	for _, r := range rows {
		resp.Records = append(resp.Records, record.NewKintoneRecord(strconv.FormatInt(r.ID, 10), r.Record))
	}
	if c.Query("totalCount") == "true" {
		n, err := h.store.Count(ctx, app)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to count records"})
		}
		total := strconv.Itoa(n)
		resp.TotalCount = &total
	}
	return c.JSON(resp)
}

type addRequest struct {
	App    int                  `json:"app"`
	Record record.KintoneRecord `json:"record"`
}

type addResponse struct {
	ID       string `json:"id"`
	Revision string `json:"revision"`
}

// AddRecord handles POST /k/v1/record.json with a kintone-style body:
// {"app": 1, "record": {"shapeType": {"value": "Cube"}, "length": {"value": "2"}, ...}}.
func (h *Handler) AddRecord(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "empty body"})
	}
	var req addRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid json"})
	}
	if req.App <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "app is required"})
	}
	rec := req.Record.ShapeRecord()
	if rec.ShapeType == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "shapeType is required"})
	}
	// ShapeRecord falls back to $id for the key; a new record has none.
	if _, ok := req.Record[record.FieldKey]; !ok {
		rec.Key = ""
	}
	id, _, err := h.store.Insert(context.Background(), req.App, rec)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to save record"})
	}
	return c.JSON(addResponse{ID: strconv.FormatInt(id, 10), Revision: "1"})
}
