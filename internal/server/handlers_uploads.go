package server

import (
	"net/http"
)

// Photo uploads are capped well above what a phone camera produces.
const maxUploadBytes = 15 << 20

// handleUploadPhoto handles POST /uploads/photos with a multipart "photo"
// field. It returns the stored object URL for the client to attach to a
// visit record.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	url, err := s.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusCreated, map[string]string{"photoUrl": url})
}
