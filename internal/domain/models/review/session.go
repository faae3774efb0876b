package review

// ReviewSession is everything a reviewer needs to open a project by token.
type ReviewSession struct {
	Project Project  `json:"project"`
	Client  *Client  `json:"client,omitempty"`
	Screens []Screen `json:"screens"`
	Votes   []Vote   `json:"votes"`
}

// ClientPortal is the client-scoped listing of projects.
type ClientPortal struct {
	Client   Client    `json:"client"`
	Projects []Project `json:"projects"`
}

// ProjectDetail is the operator view of a project.
type ProjectDetail struct {
	Project Project     `json:"project"`
	Screens []Screen    `json:"screens"`
	Votes   VoteSummary `json:"votes"`
}
