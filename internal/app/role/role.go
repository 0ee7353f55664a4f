package role

type Role int

const (
	Buyer   Role = iota // 0
	Manager             // 1
	Admin               // 2
)

func (r Role) String() string {
	switch r {
	case Manager:
		return "manager"
	case Admin:
		return "admin"
	default:
		return "buyer"
	}
}
