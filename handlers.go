package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"salesdeck/config"
	"salesdeck/export"
	"salesdeck/logger"
	"salesdeck/store"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Server wires the services behind the HTTP surface.
type Server struct {
	cfg   config.Config
	log   *logger.Logger
	llm   *LLMService
	deck  *export.DeckService
	files *store.Store
}

func NewServer(cfg config.Config, log *logger.Logger, files *store.Store) *Server {
	return &Server{
		cfg:   cfg,
		log:   log,
		llm:   NewLLMService(cfg),
		deck:  export.NewDeckService(),
		files: files,
	}
}

// routes builds the router. Kept separate from main so tests can drive the
// full HTTP surface through httptest.
func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Get("/health", s.handleHealth)
	r.Post("/generate-deck", s.handleGenerateDeck)
	r.Get("/download/{fileID}", s.handleDownload)
	return r
}

// DeckRequest is the JSON body of POST /generate-deck.
type DeckRequest struct {
	CompanyName   string `json:"company_name"`
	Industry      string `json:"industry"`
	BuyerPersona  string `json:"buyer_persona"`
	MainPainPoint string `json:"main_pain_point"`
	UseCase       string `json:"use_case"`
	LogoBase64    string `json:"logo_base64,omitempty"`
}

// DeckResponse is the success body of POST /generate-deck.
type DeckResponse struct {
	Success         bool   `json:"success"`
	FileID          string `json:"file_id"`
	DownloadURL     string `json:"download_url"`
	Filename        string `json:"filename"`
	SlidesGenerated int    `json:"slides_generated"`
	ExpiresAt       string `json:"expires_at"`
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerateDeck(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		jsonError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	var req DeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.log.Logf("[GENERATE] request for company: %s", req.CompanyName)

	if err := validateDeckRequest(req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Industry = strings.TrimSpace(req.Industry)
	req.BuyerPersona = strings.TrimSpace(req.BuyerPersona)
	req.MainPainPoint = strings.TrimSpace(req.MainPainPoint)
	req.UseCase = strings.TrimSpace(req.UseCase)

	logo, logoMIME := decodeLogo(req.LogoBase64, s.log)

	slides, err := s.llm.GenerateSlides(r.Context(), req)
	if err != nil {
		// Generation failure is absorbed: the static template keeps the
		// user-visible flow independent of third-party availability.
		s.log.Logf("[GENERATE] %v, using fallback template", WrapError("LLMService", "GenerateSlides", err))
		slides = fallbackSlides(req)
	}

	data, err := s.deck.BuildDeck(slides, logo, logoMIME)
	if err != nil {
		err = WrapError("DeckService", "BuildDeck", err)
		s.log.Logf("[GENERATE] %v", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("sales_deck_%s_%s.pptx", sanitizeName(req.CompanyName), uuid.NewString())
	path := filepath.Join(s.cfg.UploadDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.log.Logf("[GENERATE] failed to save presentation: %v", err)
		jsonError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save presentation: %v", err))
		return
	}

	fileID := s.files.Register(path, filename)
	s.log.Logf("[GENERATE] deck ready, file_id=%s", fileID)

	jsonResponse(w, http.StatusOK, DeckResponse{
		Success:         true,
		FileID:          fileID,
		DownloadURL:     "/download/" + fileID,
		Filename:        filename,
		SlidesGenerated: len(slides),
		ExpiresAt:       time.Now().Add(s.cfg.FileLifetime).Format(time.RFC3339),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	rec, err := s.files.Fetch(fileID)
	switch {
	case errors.Is(err, store.ErrExpired):
		jsonError(w, http.StatusGone, "File expired")
		return
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "File not found or expired")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	f, err := os.Open(rec.Path)
	if err != nil {
		// The file may have been removed between Fetch and Open.
		jsonError(w, http.StatusNotFound, "File not found or expired")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Filename))
	if _, err := io.Copy(w, f); err != nil {
		s.log.Logf("[DOWNLOAD] failed to stream %s: %v", fileID, err)
	}
}

// decodeLogo decodes an optional base64 logo, stripping any data-URL
// prefix. A malformed logo never fails deck generation; it is logged and
// the deck is rendered without it.
func decodeLogo(logoBase64 string, log *logger.Logger) ([]byte, string) {
	if logoBase64 == "" {
		return nil, ""
	}

	mimeType := "image/png"
	data := logoBase64
	if strings.HasPrefix(data, "data:image") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) == 2 {
			if strings.Contains(parts[0], "image/jpeg") {
				mimeType = "image/jpeg"
			} else if strings.Contains(parts[0], "image/gif") {
				mimeType = "image/gif"
			}
			data = parts[1]
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		log.Logf("[GENERATE] invalid logo_base64, rendering without logo: %v", err)
		return nil, ""
	}
	return decoded, mimeType
}

var nameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// sanitizeName makes a company name safe for use inside a filename.
func sanitizeName(name string) string {
	clean := nameSanitizer.ReplaceAllString(name, "_")
	clean = strings.Trim(clean, "_")
	if clean == "" {
		clean = "deck"
	}
	return clean
}
