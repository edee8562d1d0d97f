package web

import (
	"encoding/json"
	"html/template"
	"image"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/metrics"
)

const (
	// ConfigKeyListenAddress where the demo page is served
	ConfigKeyListenAddress = "httpListenAddress"

	defaultListenAddress = ":7860"
	maxUploadBytes       = 32 << 20
)

// ExampleQuestions shown on the demo page to get people started.
var ExampleQuestions = []string{
	"Describe this image in detail",
	"What objects can you identify?",
	"What is the main subject?",
	"What type of location is this?",
	"Is this indoors or outdoors?",
}

// Analyzer the synchronous call contract between this frontend and the pipeline.
type Analyzer interface {
	Analyze(img image.Image, question string) domain.AnalysisResult
}

type analyzeResponse struct {
	Answer    string `json:"answer,omitempty"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// Server the demo's web frontend: a single page, one analyze endpoint and Prometheus metrics.
type Server struct {
	analyzer Analyzer
	theme    Theme
	recorder *metrics.Recorder
	logger   common.Logger
	address  string
	page     *template.Template
}

func NewServer(analyzer Analyzer, theme Theme, recorder *metrics.Recorder, config *common.Config, logger common.Logger) (*Server, error) {
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	return &Server{
		analyzer: analyzer,
		theme:    theme,
		recorder: recorder,
		logger:   logger,
		address:  config.GetStringOrDefault(ConfigKeyListenAddress, defaultListenAddress),
		page:     page,
	}, nil
}

// Handler the server's routes, exposed separately from Run for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.Handle("/metrics", s.recorder.Handler())
	return mux
}

// Run blocks serving the demo until the process is terminated.
func (s *Server) Run() error {
	s.logger.Log("serving the demo on " + s.address)
	return http.ListenAndServe(s.address, s.Handler())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	err := s.page.Execute(w, map[string]any{
		"Title":          "Gemma 3 Vision Q&A Demo",
		"PrimaryColor":   s.theme.primaryCSS(),
		"SecondaryColor": s.theme.secondaryCSS(),
		"NeutralColor":   s.theme.neutralCSS(),
		"Glassy":         s.theme.BaseTheme == "glass",
		"Examples":       ExampleQuestions,
		"Placeholder":    "Describe this image in detail.",
	})
	if err != nil {
		s.logger.Log("failed to render the demo page: " + err.Error())
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()
	result := s.analyzer.Analyze(s.decodeUploadedImage(r), r.FormValue("question"))
	s.recorder.Record(result, time.Since(started))
	writeAnalyzeResponse(w, result)
}

// decodeUploadedImage returns nil when there is no decodable image in the request. The pipeline's
// validator turns a nil image into the proper inline message, so no error branching is needed here.
func (s *Server) decodeUploadedImage(r *http.Request) image.Image {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil
	}
	defer func() {
		_ = file.Close()
	}()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil
	}
	return img
}

func writeAnalyzeResponse(w http.ResponseWriter, result domain.AnalysisResult) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analyzeResponse{
		Answer:    result.AnswerText,
		Succeeded: result.Succeeded,
		Error:     result.ErrorMessage,
	})
}
