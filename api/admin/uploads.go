package admin

import (
	"encoding/json"
	"net/http"
	"strings"

	"eterna_server/handling"
	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

const maxUploadMemory = 32 << 20

// UploadImages stores the multipart "files" and returns the existing list with
// the new URLs appended. With product_id the product's list is saved as well.
func (ar *AdminRoutesManager) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid upload form"), gecho.Send())
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		gecho.BadRequest(w, gecho.WithMessage("No files were uploaded"), gecho.Send())
		return
	}

	var existing []string
	if raw := strings.TrimSpace(r.FormValue("existing")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			gecho.BadRequest(w, gecho.WithMessage("existing must be a JSON list of URLs"), gecho.Send())
			return
		}
	}

	maxImages := handling.ParseMaxImages(r.FormValue("max_images"), ar.cfg.Storage.MaxImages)
	result := ar.uploadService.Upload(r.Context(), existing, files, maxImages)

	if productID := strings.TrimSpace(r.FormValue("product_id")); productID != "" && result.Uploaded > 0 {
		if err := ar.productService.UpdateImages(r.Context(), productID, result.Images); err != nil {
			handling.HandleServiceError(err, "Images were uploaded but the product could not be updated", ar.logger, w)
			return
		}
	}

	if result.Uploaded == 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("None of the files could be uploaded"),
			gecho.WithData(result),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Images uploaded"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

// RemoveImage drops one entry from an image list. It only edits the list; the
// stored object is left in place.
func RemoveImage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RemoveImageRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Please send the image list and an index"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"images": lib.RemoveImage(body.Images, body.Index),
		}),
		gecho.Send(),
	)
}
