package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/metrics"
)

// fakeAnalyzer mimics the pipeline's contract: never fails, validation messages inline.
type fakeAnalyzer struct {
	answer   string
	lastSeen string
}

func (f *fakeAnalyzer) Analyze(img image.Image, question string) domain.AnalysisResult {
	f.lastSeen = question
	if _, err := domain.ValidateRequest(img, question); err != nil {
		return domain.NewFailedResult(err)
	}
	return domain.AnalysisResult{AnswerText: f.answer, Succeeded: true}
}

func newTestServer(t *testing.T, analyzer Analyzer) *Server {
	t.Helper()
	server, err := NewServer(analyzer, DefaultTheme(), metrics.NewRecorder(), common.NewConfig(nil), common.NewNullLogger())
	require.NoError(t, err)
	return server
}

func multipartBody(t *testing.T, question string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("question", question))
	if withImage {
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		require.NoError(t, png.Encode(part, img))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func postAnalyze(t *testing.T, server *Server, question string, withImage bool) analyzeResponse {
	t.Helper()
	body, contentType := multipartBody(t, question, withImage)
	request := httptest.NewRequest(http.MethodPost, "/analyze", body)
	request.Header.Set("Content-Type", contentType)
	response := httptest.NewRecorder()
	server.Handler().ServeHTTP(response, request)
	require.Equal(t, http.StatusOK, response.Code)

	var decoded analyzeResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &decoded))
	return decoded
}

func TestAnalyzeEndpointReturnsAnswer(t *testing.T) {
	analyzer := &fakeAnalyzer{answer: "A red square."}
	server := newTestServer(t, analyzer)

	decoded := postAnalyze(t, server, "What is this?", true)
	assert.True(t, decoded.Succeeded)
	assert.Equal(t, "A red square.", decoded.Answer)
	assert.Empty(t, decoded.Error)
	assert.Equal(t, "What is this?", analyzer.lastSeen)
}

func TestAnalyzeEndpointWithoutImage(t *testing.T) {
	server := newTestServer(t, &fakeAnalyzer{answer: "unused"})

	decoded := postAnalyze(t, server, "What is this?", false)
	assert.False(t, decoded.Succeeded)
	assert.Equal(t, "Please upload an image first.", decoded.Error)
}

func TestAnalyzeEndpointWithoutQuestion(t *testing.T) {
	server := newTestServer(t, &fakeAnalyzer{answer: "unused"})

	decoded := postAnalyze(t, server, "", true)
	assert.False(t, decoded.Succeeded)
	assert.Equal(t, "Please enter a question about the image.", decoded.Error)
}

func TestAnalyzeEndpointRejectsGet(t *testing.T) {
	server := newTestServer(t, &fakeAnalyzer{})

	response := httptest.NewRecorder()
	server.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, response.Code)
}

func TestDemoPageRenders(t *testing.T) {
	server := newTestServer(t, &fakeAnalyzer{})

	response := httptest.NewRecorder()
	server.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "Gemma 3 Vision Q&A Demo")
	for _, example := range ExampleQuestions {
		assert.Contains(t, response.Body.String(), example)
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	server := newTestServer(t, &fakeAnalyzer{answer: "ok"})
	postAnalyze(t, server, "What is this?", true)

	response := httptest.NewRecorder()
	server.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "gemma3_demo_analyze_requests_total")
}

func TestNewServerRejectsInvalidTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.PrimaryColor = "mauve"

	_, err := NewServer(&fakeAnalyzer{}, theme, metrics.NewRecorder(), common.NewConfig(nil), common.NewNullLogger())
	require.Error(t, err)
}
