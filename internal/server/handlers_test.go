package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/evalsheet-go/internal/config"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/xuri/excelize/v2"
)

type upload struct {
	field, name string
	data        []byte
}

func sheet(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func post(t *testing.T, h http.Handler, path string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	return New(cfg).Handler()
}

func rosterUpload(t *testing.T) upload {
	return upload{"primary", "turma.xlsx", sheet(t,
		[]interface{}{"Nome", "Nº"},
		[]interface{}{"Ana", 1},
		[]interface{}{"Bruno", 2},
	)}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMergePreview(t *testing.T) {
	rec := post(t, newHandler(t), "/merge/preview", map[string]string{"key": "Nome"},
		rosterUpload(t),
		upload{"extra", "notas.xlsx", sheet(t, []interface{}{"Nome", "UC1"}, []interface{}{"Bruno", 15})},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"Nome", "Nº", "UC1"}, got.Columns)
	assert.Equal(t, 2, got.TotalRows)
	require.Len(t, got.Rows, 2)
	assert.Nil(t, got.Rows[0][2])
	assert.Equal(t, 15.0, got.Rows[1][2])
	assert.Empty(t, got.Warning)
}

func TestMergeDownload(t *testing.T) {
	rec := post(t, newHandler(t), "/merge", nil, rosterUpload(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), evalsheet.DefaultOutputName)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(evalsheet.DefaultSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nome", "Nº"}, {"Ana", "1"}, {"Bruno", "2"}}, rows)
}

func TestMergeErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
		status int
		msg    string
	}{
		{
			name:   "no primary",
			status: http.StatusBadRequest,
			msg:    "primary",
		},
		{
			name:   "extra without key",
			fields: map[string]string{"key": "Nome"},
			files: []upload{
				rosterUpload(t),
				{"extra", "faltas.xlsx", sheet(t, []interface{}{"Formando", "Faltas"}, []interface{}{"Ana", 2})},
			},
			status: http.StatusUnprocessableEntity,
			msg:    `File "faltas.xlsx" has no column "Nome"`,
		},
		{
			name:   "not a spreadsheet",
			files:  []upload{{"primary", "turma.csv", []byte("Nome;Nº\nAna;1\n")}},
			status: http.StatusUnprocessableEntity,
			msg:    "turma.csv",
		},
		{
			name:   "bad header row",
			fields: map[string]string{"header_row": "two"},
			files:  []upload{rosterUpload(t)},
			status: http.StatusBadRequest,
			msg:    "header_row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newHandler(t), "/merge/preview", tt.fields, tt.files...)
			assert.Equal(t, tt.status, rec.Code)

			var got errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Contains(t, got.Error, tt.msg)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), got.RequestID)
		})
	}
}

func TestLocate(t *testing.T) {
	form := sheet(t,
		[]interface{}{"Ficha de avaliação"},
		[]interface{}{nil, "Nome do formando:"},
	)
	h := newHandler(t)

	rec := post(t, h, "/locate", map[string]string{"text": "Nome", "range": "A1:D10"},
		upload{"file", "ficha.xlsx", form})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got locateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, locateResponse{Found: true, Sheet: "Sheet1", Cell: "B2", Row: 2, Col: 2, Text: "Nome do formando:"}, got)

	rec = post(t, h, "/locate", map[string]string{"text": "Nome", "range": "C1:D10"},
		upload{"file", "ficha.xlsx", form})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"found":false}`, rec.Body.String())

	rec = post(t, h, "/locate", map[string]string{"text": "Nome"}, upload{"file", "ficha.xlsx", form})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = post(t, h, "/locate", map[string]string{"text": "Nome", "range": "A1"}, upload{"file", "ficha.xlsx", form})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoster(t *testing.T) {
	rec := post(t, newHandler(t), "/roster", nil, upload{"file", "turma.xlsx", sheet(t,
		[]interface{}{"Nome"},
		[]interface{}{"Ana"},
		[]interface{}{"Bruno"},
	)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Names []string `json:"names"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"Ana", "Bruno"}, got.Names)
}
