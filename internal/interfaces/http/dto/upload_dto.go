package dto

// UploadResponse summarizes one CSV ingestion run.
type UploadResponse struct {
	Message       string `json:"message"`
	TotalRows     int    `json:"totalRows"`
	ProcessedRows int    `json:"processedRows"`
	SkippedRows   int    `json:"skippedRows"`
}

// NewUploadResponse builds the upload summary payload.
func NewUploadResponse(message string, totalRows, processedRows, skippedRows int) UploadResponse {
	return UploadResponse{
		Message:       message,
		TotalRows:     totalRows,
		ProcessedRows: processedRows,
		SkippedRows:   skippedRows,
	}
}
