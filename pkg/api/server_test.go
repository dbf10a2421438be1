package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/james-see/mod2midi/pkg/config"
	"github.com/james-see/mod2midi/pkg/converter"
	"github.com/james-see/mod2midi/pkg/tracker/trackertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return NewRouter(config.DefaultConfig())
}

func uploadRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if data != nil {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func sampleModule() []byte {
	b := trackertest.New()
	b.Title = "api test"
	b.SetOrder(0)
	b.Samples[0] = trackertest.SampleSpec{Name: "Lead Square", Volume: 64}
	b.SetNote(0, 0, 0, trackertest.Note{Period: 254, Instrument: 1})
	return b.Bytes()
}

func TestHealth(t *testing.T) {
	r := newTestRouter()
	for _, path := range []string{"/health", "/api/v1/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "healthy", path)
	}
}

func TestCORSPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/formats", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestListFormats(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"mod", "midi"}, resp["formats"])
	assert.Equal(t, []string{"mod -> midi"}, resp["conversions"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		program float64
	}{
		{"Lead%20Square", "melodic", 80},
		{"KickDrum", "percussion", -1},
	}

	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/classify?name="+tt.name, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.role, resp["role"])
			if tt.program >= 0 {
				assert.Equal(t, tt.program, resp["program"])
			} else {
				assert.NotContains(t, resp, "program")
			}
		})
	}
}

func TestConvertModToMIDI(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, uploadRequest(t, "/api/v1/convert/mod2midi", "song.mod", sampleModule(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=song.mid", w.Header().Get("Content-Disposition"))

	seq, err := converter.NewMIDIConverter().ParseMIDI(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "api test", seq.Title)
	assert.Equal(t, 1, seq.Count(converter.NoteOnEvent))
	assert.EqualValues(t, 64*converter.DefaultTicksPerRow, seq.TotalTicks())
}

func TestConvertForcePiano(t *testing.T) {
	w := httptest.NewRecorder()
	req := uploadRequest(t, "/api/v1/convert/mod2midi", "song.mod", sampleModule(), map[string]string{"force_piano": "true"})
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	seq, err := converter.NewMIDIConverter().ParseMIDI(w.Body.Bytes())
	require.NoError(t, err)
	for _, ev := range seq.Events {
		if ev.Kind == converter.ProgramChangeEvent {
			assert.Zero(t, ev.Program)
		}
	}
}

func TestConvertRejectsShortModule(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, uploadRequest(t, "/api/v1/convert/mod2midi", "tiny.mod", []byte("tiny"), nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "format", resp["kind"])
}

func TestConvertMissingFile(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, uploadRequest(t, "/api/v1/convert/mod2midi", "", nil, map[string]string{"force_piano": "false"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestInspect(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, uploadRequest(t, "/api/v1/inspect", "song.mod", sampleModule(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	var summary converter.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "api test", summary.Title)
	assert.Equal(t, "M.K.", summary.FormatTag)
	assert.True(t, summary.RecognizedTag)
	assert.Len(t, summary.Samples, 31)
	require.NotNil(t, summary.Samples[0].Program)
	assert.EqualValues(t, 80, *summary.Samples[0].Program)
}
