// Package api provides the REST API server for mod2midi
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/mod2midi/pkg/classifier"
	"github.com/james-see/mod2midi/pkg/config"
	"github.com/james-see/mod2midi/pkg/converter"
	"github.com/james-see/mod2midi/pkg/tracker"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title MOD2MIDI API
// @version 1.0
// @description API for converting tracker modules to Standard MIDI Files
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server with the given configuration
func StartServer(cfg *config.Config) error {
	return NewRouter(cfg).Run(fmt.Sprintf(":%d", cfg.Server.Port))
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	h := &handler{cfg: cfg}

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert/mod2midi", h.handleModToMIDI)
		v1.POST("/inspect", h.handleInspect)
		v1.GET("/classify", handleClassify)
		v1.GET("/formats", listFormats)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

type handler struct {
	cfg *config.Config
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mod2midi",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"mod", "midi"},
		"conversions": converter.GetSupportedConversions(),
	})
}

// handleClassify godoc
// @Summary Classify a sample name
// @Description Returns the role and General MIDI program guessed for a sample name
// @Tags info
// @Produce json
// @Param name query string true "Sample name"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/classify [get]
func handleClassify(c *gin.Context) {
	name := c.Query("name")
	cl := classifier.Classify(name)

	resp := gin.H{
		"name":    name,
		"role":    cl.Role.String(),
		"keyword": cl.Keyword,
	}
	if cl.Role == classifier.Melodic {
		resp["known"] = cl.Known
		resp["program"] = cl.ProgramOr(0)
		resp["program_name"] = classifier.ProgramName(cl.ProgramOr(0))
	}
	c.JSON(http.StatusOK, resp)
}

// handleModToMIDI godoc
// @Summary Convert a tracker module to MIDI
// @Description Upload a .mod file and receive a Standard MIDI File
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "Module file to convert"
// @Param force_piano formData bool false "Send all melodic samples to program 0"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/mod2midi [post]
func (h *handler) handleModToMIDI(c *gin.Context) {
	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	conv := converter.New(converter.Options{ForcePiano: h.forcePiano(c)})
	result, err := conv.ModToMIDI(data)
	if err != nil {
		writeConversionError(c, err)
		return
	}

	outputName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".mid"
	if outputName == ".mid" {
		outputName = "converted.mid"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, "audio/midi", result)
}

// handleInspect godoc
// @Summary Inspect a tracker module
// @Description Upload a .mod file and receive its decoded header, samples and channel plan
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Module file to inspect"
// @Param force_piano formData bool false "Send all melodic samples to program 0"
// @Success 200 {object} converter.Summary
// @Failure 400 {object} map[string]string
// @Router /api/v1/inspect [post]
func (h *handler) handleInspect(c *gin.Context) {
	data, _, ok := h.readUpload(c)
	if !ok {
		return
	}

	conv := converter.New(converter.Options{ForcePiano: h.forcePiano(c)})
	summary, err := conv.Inspect(data)
	if err != nil {
		writeConversionError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handler) readUpload(c *gin.Context) ([]byte, string, bool) {
	if h.cfg.Server.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxUploadBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return nil, "", false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	return data, header.Filename, true
}

// forcePiano reads the force_piano form field, falling back to the config default
func (h *handler) forcePiano(c *gin.Context) bool {
	v, ok := c.GetPostForm("force_piano")
	if !ok {
		v, ok = c.GetQuery("force_piano")
	}
	if !ok {
		return h.cfg.ForcePiano
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return h.cfg.ForcePiano
	}
	return b
}

func writeConversionError(c *gin.Context, err error) {
	var fe *tracker.FormatError
	if errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  err.Error(),
			"kind":   "format",
			"offset": fe.Offset,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
