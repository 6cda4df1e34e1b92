package consts

// Database tables.
const (
	DBJobs = "jobs"
)

// Job table columns.
const (
	QJobID        = "id"
	QJobURL       = "url"
	QJobFormat    = "format"
	QJobQuality   = "quality"
	QJobTitle     = "title"
	QJobStatus    = "status"
	QJobPct       = "percent"
	QJobError     = "error"
	QJobCreatedAt = "created_at"
	QJobUpdatedAt = "updated_at"
)
