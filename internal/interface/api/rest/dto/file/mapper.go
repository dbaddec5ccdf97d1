package file

import (
	"net/url"

	domain "member-portal-api/internal/domain/file"
)

// ToResponseFile renders rec; contentRoute is where its bytes are served.
func ToResponseFile(rec domain.Record, contentRoute string) File {
	return File{
		ID:           rec.ID,
		OriginalName: rec.OriginalName,
		DisplayName:  rec.DisplayName,
		URL:          contentRoute + "?" + url.Values{"id": {rec.ID.String()}}.Encode(),
		Size:         rec.SizeBytes,
		MimeType:     rec.MimeType,
		CreatedAt:    rec.CreatedAt.UTC(),
	}
}

func ToResponseFiles(recs domain.Records, contentRoute string) Files {
	out := make(Files, len(recs))
	for idx, r := range recs {
		out[idx] = ToResponseFile(*r, contentRoute)
	}

	return out
}
