package portal

// Topic is a thesis topic listed on the portal
type Topic struct {
	Topic    string `json:"topic"`
	Link     string `json:"link"`
	Provider string `json:"provider"`
}

// Form field names used by the login page and the topic browser
const (
	loginTokenField  = "csrf_token"
	portalTokenField = "csrfmiddlewaretoken"
)

const (
	browsePath    = "/topics/browse/"
	filterSetPath = "/topics/browse/filter/set/"

	rateLimitKey = "portal_rate_limited"
	component    = "portal"
)
