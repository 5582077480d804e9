package entity

// AccountKind discriminates the three principal types sharing the
// OTP and token protocol. Each kind has its own table and claims.
type AccountKind string

const (
	KindCompany  AccountKind = "company"
	KindEmployee AccountKind = "employee"
	KindConsumer AccountKind = "consumer"
)

// IdentityClaim returns the JWT claim name carrying the account identifier
// for this kind. Consumer tokens keep the historical "user_id" claim.
func (k AccountKind) IdentityClaim() string {
	switch k {
	case KindCompany:
		return "company_id"
	case KindEmployee:
		return "employee_id"
	default:
		return "user_id"
	}
}

// Account is the capability interface the shared OTP/token protocol is
// parameterized over. Company, Employee and Consumer all satisfy it.
type Account interface {
	AccountID() uint
	AccountKind() AccountKind
	AccountEmail() string
}
