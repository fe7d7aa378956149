package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/imagevault/service/internal/apperr"
	"github.com/imagevault/service/internal/response"
	"github.com/imagevault/service/internal/user"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// Identity resolves the authenticated user of a request.
type Identity interface {
	Current(ctx context.Context) (*user.User, error)
}

// Handler holds HTTP handlers for image and group-deletion endpoints.
type Handler struct {
	svc            *Service
	users          Identity
	maxUploadBytes int64
}

// NewHandler creates a new gallery Handler.
func NewHandler(svc *Service, users Identity, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, users: users, maxUploadBytes: maxUploadBytes}
}

type imageBody struct {
	URL  string `json:"url"  example:"https://bucket.s3.amazonaws.com/images/group/0b7c.../filename/a.jpg?X-Amz-Signature=..."`
	Key  string `json:"key"  example:"images/group/0b7c.../filename/a.jpg"`
	Name string `json:"name" example:"a.jpg"`
	Date string `json:"date" example:"2025-02-03"`
	Size int64  `json:"size" example:"20480"`
}

type imagesResponse struct {
	Images []imageBody `json:"images"`
}

type uploadResponse struct {
	Success  bool   `json:"success"  example:"true"`
	FileName string `json:"fileName" example:"a.jpg"`
}

type deleteObjectsRequest struct {
	GroupID  string `json:"groupId"  example:"0b7c1f1e-0a3e-4b7e-9a55-8f3e0c6b2d41"`
	FilePath string `json:"filePath" example:"images/group/0b7c1f1e-0a3e-4b7e-9a55-8f3e0c6b2d41/filename/a.jpg"`
}

type deleteGroupRequest struct {
	GroupID string `json:"groupId" example:"0b7c1f1e-0a3e-4b7e-9a55-8f3e0c6b2d41"`
}

// Retrieve godoc
//
//	@Summary		List images
//	@Description	Lists every image of a group owned by the caller, each with a presigned URL valid for one hour.
//	@Tags			images
//	@Produce		json
//	@Security		BearerAuth
//	@Param			path	query		string	false	"Listing path, e.g. images/group/{groupId}/filename"
//	@Param			groupId	query		string	false	"Group id (alternative to path)"
//	@Success		200		{object}	imagesResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		403		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/s3-retrieve [get]
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to retrieve images"

	u, err := h.users.Current(r.Context())
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	groupID, err := listingGroup(r.URL.Query().Get("path"), r.URL.Query().Get("groupId"))
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	g, err := h.svc.AuthorizeGroup(r.Context(), groupID, u.ID)
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	images, err := h.svc.ListImages(r.Context(), g.ID)
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	body := imagesResponse{Images: make([]imageBody, 0, len(images))}
	for _, img := range images {
		body.Images = append(body.Images, imageBody{
			URL:  img.URL,
			Key:  img.Key,
			Name: img.Name,
			Date: formatDate(img.LastModified),
			Size: img.Size,
		})
	}
	response.OK(w, body)
}

// Upload godoc
//
//	@Summary		Upload image
//	@Description	Stores an image in a group owned by the caller. An image with the same name is overwritten.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"Image file"
//	@Param			groupId	formData	string	true	"Target group id"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		403		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/s3-upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const failure = "File upload failed"

	u, err := h.users.Current(r.Context())
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		response.BadRequest(w, "Invalid Content-Type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		response.BadRequest(w, "File is required")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File is required")
		return
	}
	defer file.Close()

	groupID := r.FormValue("groupId")
	if groupID == "" {
		response.BadRequest(w, "Group ID is required")
		return
	}
	g, err := h.svc.AuthorizeGroup(r.Context(), groupID, u.ID)
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	contentType, err := declaredContentType(file, header)
	if err != nil {
		response.BadRequest(w, "File is required")
		return
	}

	fileName := header.Filename
	if fileName == "" {
		fileName = fmt.Sprintf("file-%d.jpg", time.Now().UnixMilli())
	}

	if _, err := h.svc.UploadImage(r.Context(), g.ID, fileName, file, header.Size, contentType); err != nil {
		response.Err(w, err, failure)
		return
	}

	response.OK(w, uploadResponse{Success: true, FileName: fileName})
}

// Delete godoc
//
//	@Summary		Delete images
//	@Description	With filePath deletes one image; with only groupId deletes every stored object of the group (the group itself is kept).
//	@Tags			images
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		deleteObjectsRequest	true	"groupId and/or filePath"
//	@Success		200		{object}	response.Result
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		403		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/s3-delete [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to delete files"

	u, err := h.users.Current(r.Context())
	if err != nil {
		response.Err(w, err, failure)
		return
	}

	var req deleteObjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	groupID := req.GroupID
	if groupID == "" && req.FilePath != "" {
		keyGroup, _, ok := ParseImageKey(req.FilePath)
		if !ok {
			response.BadRequest(w, "Invalid file path")
			return
		}
		groupID = keyGroup
	}
	if groupID == "" {
		response.BadRequest(w, "Group ID is required")
		return
	}

	g, err := h.svc.AuthorizeGroup(r.Context(), groupID, u.ID)
	if err != nil {
		response.Err(w, err, failure)
		return
	}
	groupID = g.ID

	if req.FilePath != "" {
		if err := h.svc.DeleteImage(r.Context(), groupID, req.FilePath); err != nil {
			response.Err(w, err, failure)
			return
		}
		response.Success(w, "File deleted successfully")
		return
	}

	if _, err := h.svc.PurgeGroupObjects(r.Context(), groupID); err != nil {
		response.Err(w, err, failure)
		return
	}
	response.Success(w, fmt.Sprintf("All files under %s have been deleted.", GroupPrefix(groupID)))
}

// DeleteGroup godoc
//
//	@Summary		Delete group
//	@Description	Deletes a group owned by the caller, then every stored object under it. If the second step fails the group stays deleted and the response is 500.
//	@Tags			groups
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		deleteGroupRequest	true	"Group id"
//	@Success		200		{object}	response.Result
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		403		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/user-groups [delete]
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Current(r.Context())
	if err != nil {
		response.Err(w, err, "Internal Server Error")
		return
	}

	var req deleteGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.GroupID == "" {
		response.BadRequest(w, "Group ID is required")
		return
	}

	err = h.svc.DeleteGroup(r.Context(), req.GroupID, u.ID)
	switch {
	case errors.Is(err, apperr.ErrStorageUnavailable):
		response.Err(w, err, "Group deleted but its images could not be removed")
		return
	case err != nil:
		response.Err(w, err, "Internal Server Error")
		return
	}

	response.Success(w, "Group deleted successfully")
}

// listingGroup picks the group id out of the retrieve query.
func listingGroup(path, groupID string) (string, error) {
	if path == "" {
		if groupID == "" {
			return "", apperr.Validation("Path parameter is required")
		}
		return groupID, nil
	}

	fromPath, ok := GroupFromPath(path)
	if !ok {
		return "", apperr.Validation("Invalid path parameter")
	}
	if groupID != "" && groupID != fromPath {
		return "", apperr.Validation("Path and group ID do not match")
	}
	return fromPath, nil
}

// declaredContentType returns the part's declared type, sniffing the first
// bytes when the browser sent none or a generic one.
func declaredContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	ct := header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format(time.DateOnly)
}
