package dto

// ChatAskRequest payload for the guidance endpoint.
type ChatAskRequest struct {
	Question string `json:"question"`
}

// ChatAnswerResponse relays the provider's answer.
type ChatAnswerResponse struct {
	Answer string `json:"answer"`
}
