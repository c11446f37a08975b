package deployment

// Environment is a deployment target stage.
type Environment string

const (
	Prod Environment = "prod"
	Beta Environment = "beta"
)

// Environments lists every environment a trigger may name.
var Environments = []Environment{Prod, Beta}

// ParseEnvironment accepts exactly "prod" or "beta". Matching is case-sensitive.
func ParseEnvironment(s string) (Environment, bool) {
	switch Environment(s) {
	case Prod, Beta:
		return Environment(s), true
	default:
		return "", false
	}
}

func (e Environment) String() string {
	return string(e)
}
