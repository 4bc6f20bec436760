// Package http provides HTTP handlers for the one-time secret endpoints.
// Payloads arrive and leave encrypted; the handlers move ciphertext and
// metadata, never plaintext or keys.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/lockbin/internal/httputil"
	"github.com/allisson/lockbin/internal/secret/domain"
	"github.com/allisson/lockbin/internal/secret/http/dto"
	secretUseCase "github.com/allisson/lockbin/internal/secret/usecase"
	customValidation "github.com/allisson/lockbin/internal/validation"
)

// SecretHandler handles HTTP requests for storing, probing, and revealing
// one-time secrets.
type SecretHandler struct {
	secretUseCase  secretUseCase.SecretUseCase
	maxUploadBytes int64
	logger         *slog.Logger
	startedAt      time.Time
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(
	useCase secretUseCase.SecretUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{
		secretUseCase:  useCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		startedAt:      time.Now(),
	}
}

// CreateTextHandler stores an encrypted text secret.
// POST /api/text - Returns 201 Created with the share id and TTL in seconds.
func (h *SecretHandler) CreateTextHandler(c *gin.Context) {
	var req dto.CreateTextRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// The base64 string is stored as-is: the server never decodes the payload
	input := secretUseCase.CreateSecretInput{
		Kind:         domain.KindText,
		Ciphertext:   []byte(req.EncryptedData),
		IV:           req.IV,
		TTLOption:    req.ExpiresIn,
		PasswordGate: req.PasswordGate(),
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToCreateResponse(secret))
}

// CreateFileHandler stores an encrypted file secret.
// POST /api/file - Multipart form with the ciphertext in the "encryptedFile"
// part. Returns 201 Created, or 413 when the upload exceeds the configured limit.
func (h *SecretHandler) CreateFileHandler(c *gin.Context) {
	var req dto.CreateFileRequest

	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	fileHeader, err := c.FormFile("encryptedFile")
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("encryptedFile is required: %w", err),
			h.logger,
		)
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		httputil.HandlePayloadTooLargeGin(c, h.maxUploadBytes, h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	// Size from the multipart header is advisory; cap the actual read too
	ciphertext, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if int64(len(ciphertext)) > h.maxUploadBytes {
		httputil.HandlePayloadTooLargeGin(c, h.maxUploadBytes, h.logger)
		return
	}

	originalName := req.OriginalName
	if originalName == "" {
		originalName = "unknown"
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	input := secretUseCase.CreateSecretInput{
		Kind:         domain.KindFile,
		Ciphertext:   ciphertext,
		IV:           req.IV,
		TTLOption:    req.ExpiresIn,
		OriginalName: originalName,
		MimeType:     mimeType,
		PasswordGate: req.PasswordGate(),
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToCreateResponse(secret))
}

// RevealTextHandler performs the one-time read of a text secret.
// GET /api/text/:id - Returns 200 with the ciphertext exactly once,
// 404 when unknown, 410 when already accessed or expired.
func (h *SecretHandler) RevealTextHandler(c *gin.Context) {
	h.reveal(c, domain.KindText)
}

// RevealFileHandler performs the one-time read of a file secret.
// GET /api/file/:id - Same contract as the text endpoint; the ciphertext is
// base64 encoded in the JSON body.
func (h *SecretHandler) RevealFileHandler(c *gin.Context) {
	h.reveal(c, domain.KindFile)
}

func (h *SecretHandler) reveal(c *gin.Context, kind domain.Kind) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed id is indistinguishable from an unknown one
		httputil.HandleErrorGin(c, domain.ErrSecretNotFound, h.logger)
		return
	}

	secret, data, err := h.secretUseCase.Reveal(c.Request.Context(), id, kind)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToRevealResponse(secret, data))
}

// ExistsHandler reports whether a secret is still retrievable without
// consuming it.
// GET /api/text/:id/exists, GET /api/file/:id/exists - Always 200; every
// unavailable state collapses to {"exists": false}.
func (h *SecretHandler) ExistsHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, dto.UnavailableExistsResponse())
		return
	}

	secret, err := h.secretUseCase.Probe(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, dto.UnavailableExistsResponse())
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToExistsResponse(secret))
}

// HealthHandler reports service liveness, the current live secret count,
// process uptime in seconds, and heap usage.
// GET /health
func (h *SecretHandler) HealthHandler(c *gin.Context) {
	count, err := h.secretUseCase.LiveCount(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Seconds(),
		"secrets": count,
		"memory":  fmt.Sprintf("%d MB", memStats.Alloc/1024/1024),
	})
}
