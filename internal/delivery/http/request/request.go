package request

type SubmitRunRequest struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
	Force bool   `json:"force"`
}
