package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"kelfit/internal/errors"
	"kelfit/internal/model"
	"kelfit/internal/service"
)

const (
	// maxPhotoSize caps profile photo uploads.
	maxPhotoSize = 5 << 20
	// PhotoBodyLimit caps the whole multipart request, form envelope included.
	PhotoBodyLimit = "6M"
	// sniffLen is how much of a file http.DetectContentType looks at.
	sniffLen = 512
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest lists the editable profile fields. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Language *string          `json:"language,omitempty" validate:"omitempty,oneof=pt en es"`
	Goal     *string          `json:"goal,omitempty" validate:"omitempty,max=255"`
	Weight   *decimal.Decimal `json:"weight,omitempty" swaggertype:"number"`
	Height   *decimal.Decimal `json:"height,omitempty" swaggertype:"number"`
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	update := service.ProfileUpdate{
		Name:   req.Name,
		Goal:   req.Goal,
		Weight: req.Weight,
		Height: req.Height,
	}
	if req.Language != nil {
		lang := model.Language(*req.Language)
		update.Language = &lang
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), userID, update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UploadPhoto godoc
// @Summary Upload a profile photo
// @Tags profile
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "JPEG, PNG, WebP or GIF image up to 5 MB"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /profile/photo [post]
func (h *UserHandler) UploadPhoto(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return badRequest("photo file is required", "INVALID_REQUEST")
	}
	if fh.Size > maxPhotoSize {
		return badRequest("photo must be at most 5 MB", "PHOTO_TOO_LARGE")
	}

	file, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	// the part's declared Content-Type is ignored
	contentType, content, err := sniffImage(file)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.svc.UploadPhoto(c.Request().Context(), userID, contentType, content, fh.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// sniffImage detects the media type from the leading bytes and returns a
// reader that replays the whole file.
func sniffImage(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, errors.ErrUnsupportedImage
	}
	return contentType, io.MultiReader(bytes.NewReader(head), r), nil
}
