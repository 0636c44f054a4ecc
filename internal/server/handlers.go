package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/consolidate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/locate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/roster"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// errBadInput marks form input the request itself got wrong.
var errBadInput = errors.New("bad input")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type previewResponse struct {
	Columns    []string            `json:"columns"`
	Rows       [][]models.Value    `json:"rows"`
	TotalRows  int                 `json:"total_rows"`
	Duplicates map[string][]string `json:"duplicates,omitempty"`
	Warning    string              `json:"warning,omitempty"`
}

type locateResponse struct {
	Found bool   `json:"found"`
	Sheet string `json:"sheet,omitempty"`
	Cell  string `json:"cell,omitempty"`
	Row   int    `json:"row,omitempty"`
	Col   int    `json:"col,omitempty"`
	Text  string `json:"text,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMergePreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.merge(w, r)
	if !ok {
		return
	}
	head := res.Preview(s.cfg.Options())
	out := previewResponse{
		Columns:    head.Header(),
		Rows:       make([][]models.Value, head.NumRows()),
		TotalRows:  res.Table.NumRows(),
		Duplicates: res.Duplicates,
	}
	for i := range out.Rows {
		out.Rows[i] = head.Record(i)
	}
	if res.Empty {
		out.Warning = evalsheet.UserMessage(evalsheet.ErrEmptyPrimaryTable)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	res, ok := s.merge(w, r)
	if !ok {
		return
	}
	data, err := res.Workbook(s.cfg.Options())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", evalsheet.DefaultOutputName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// merge runs the merge described by the form. On failure the response is already written.
func (s *Server) merge(w http.ResponseWriter, r *http.Request) (*consolidate.Result, bool) {
	if err := s.parseForm(r); err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	primary, err := formFiles(r, "primary")
	if err == nil && len(primary) != 1 {
		err = fmt.Errorf("%w: exactly one primary file is required", errBadInput)
	}
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	extras, err := formFiles(r, "extra")
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	headerRow, err := formInt(r, "header_row")
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	key := strings.TrimSpace(r.FormValue("key"))
	if key == "" {
		key = s.cfg.Key
	}
	logger(r).WithFields(log.Fields{
		"primary": primary[0].Name,
		"extras":  len(extras),
		"key":     key,
	}).Info("merge")

	res, err := consolidate.Run(consolidate.Request{
		Primary:   primary[0],
		Extras:    extras,
		Key:       key,
		Sheet:     r.FormValue("sheet"),
		HeaderRow: headerRow,
	})
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return res, true
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	wb, ok := s.uploadedWorkbook(w, r)
	if !ok {
		return
	}
	defer wb.Close()

	q := locate.Query{Text: r.FormValue("text")}
	if strings.TrimSpace(q.Text) == "" {
		s.fail(w, r, fmt.Errorf("%w: text is required", errBadInput))
		return
	}
	var err error
	if q.PrefixLen, err = formInt(r, "prefix_len"); err != nil {
		s.fail(w, r, err)
		return
	}
	q.Exact = r.FormValue("exact") == "true"

	var region models.Region
	if ref := strings.TrimSpace(r.FormValue("range")); ref != "" {
		if region, err = models.ParseRange(ref); err != nil {
			s.fail(w, r, fmt.Errorf("%w: %v", errBadInput, err))
			return
		}
	}

	m, found, err := locate.FindText(wb, r.FormValue("sheet"), region, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := locateResponse{Found: found}
	if found {
		out.Sheet, out.Cell, out.Row, out.Col, out.Text = m.Sheet, m.Cell(), m.Row, m.Col, m.Text
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	wb, ok := s.uploadedWorkbook(w, r)
	if !ok {
		return
	}
	defer wb.Close()

	l := s.cfg.Roster
	if sheet := r.FormValue("sheet"); sheet != "" {
		l.Sheet = sheet
	}
	ros, err := roster.Read(wb, l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ros)
}

// uploadedWorkbook opens the single "file" part. On failure the response is already written.
func (s *Server) uploadedWorkbook(w http.ResponseWriter, r *http.Request) (*workbook.Workbook, bool) {
	if err := s.parseForm(r); err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	files, err := formFiles(r, "file")
	if err == nil && len(files) != 1 {
		err = fmt.Errorf("%w: exactly one file is required", errBadInput)
	}
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	wb, err := workbook.Open(files[0].Name, files[0].Reader)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return wb, true
}

func (s *Server) parseForm(r *http.Request) error {
	limit := s.cfg.MaxUploadMB << 20
	if limit <= 0 {
		limit = 32 << 20
	}
	if err := r.ParseMultipartForm(limit); err != nil {
		return fmt.Errorf("%w: %v", errBadInput, err)
	}
	return nil
}

// formFiles reads every upload of a multipart field into memory.
func formFiles(r *http.Request, field string) ([]consolidate.Source, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	out := make([]consolidate.Source, 0, len(headers))
	for _, h := range headers {
		data, err := readPart(h)
		if err != nil {
			return nil, evalsheet.NewProcessingError(h.Filename, err)
		}
		out = append(out, consolidate.Source{Name: h.Filename, Reader: bytes.NewReader(data)})
	}
	return out, nil
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formInt(r *http.Request, field string) (int, error) {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadInput, field)
	}
	return n, nil
}

// fail writes err as a JSON error. Form mistakes are 400; everything the operation
// rejected is 422 with the user-facing message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusUnprocessableEntity, evalsheet.UserMessage(err)
	if errors.Is(err, errBadInput) {
		status, msg = http.StatusBadRequest, err.Error()
	}
	logger(r).WithError(err).WithField("status", status).Warn("request failed")
	writeJSON(w, status, errorResponse{Error: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
