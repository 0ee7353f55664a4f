package ds

// ResourceType names one of the seven limit columns a user can be granted.
type ResourceType string

const (
	MemoryLimit     ResourceType = "memory_limit"
	CPULimit        ResourceType = "cpu_limit"
	DiskLimit       ResourceType = "disk_limit"
	ServerLimit     ResourceType = "server_limit"
	DatabaseLimit   ResourceType = "database_limit"
	BackupLimit     ResourceType = "backup_limit"
	AllocationLimit ResourceType = "allocation_limit"
)

// ResourceTypes lists the limit kinds in grant order.
var ResourceTypes = []ResourceType{
	MemoryLimit,
	CPULimit,
	DiskLimit,
	ServerLimit,
	DatabaseLimit,
	BackupLimit,
	AllocationLimit,
}

func (t ResourceType) Valid() bool {
	for _, rt := range ResourceTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Resources is the set of limits carried by a package, a purchase or a user account.
type Resources struct {
	MemoryLimit     int64 `gorm:"not null;default:0;check:memory_limit >= 0" json:"memory_limit"`
	CPULimit        int64 `gorm:"column:cpu_limit;not null;default:0;check:cpu_limit >= 0" json:"cpu_limit"`
	DiskLimit       int64 `gorm:"not null;default:0;check:disk_limit >= 0" json:"disk_limit"`
	ServerLimit     int64 `gorm:"not null;default:0;check:server_limit >= 0" json:"server_limit"`
	DatabaseLimit   int64 `gorm:"not null;default:0;check:database_limit >= 0" json:"database_limit"`
	BackupLimit     int64 `gorm:"not null;default:0;check:backup_limit >= 0" json:"backup_limit"`
	AllocationLimit int64 `gorm:"not null;default:0;check:allocation_limit >= 0" json:"allocation_limit"`
}

// Get returns the amount stored for the given type.
func (r Resources) Get(t ResourceType) int64 {
	switch t {
	case MemoryLimit:
		return r.MemoryLimit
	case CPULimit:
		return r.CPULimit
	case DiskLimit:
		return r.DiskLimit
	case ServerLimit:
		return r.ServerLimit
	case DatabaseLimit:
		return r.DatabaseLimit
	case BackupLimit:
		return r.BackupLimit
	case AllocationLimit:
		return r.AllocationLimit
	}
	return 0
}

// Set stores amount for the given type; unknown types are ignored.
func (r *Resources) Set(t ResourceType, amount int64) {
	switch t {
	case MemoryLimit:
		r.MemoryLimit = amount
	case CPULimit:
		r.CPULimit = amount
	case DiskLimit:
		r.DiskLimit = amount
	case ServerLimit:
		r.ServerLimit = amount
	case DatabaseLimit:
		r.DatabaseLimit = amount
	case BackupLimit:
		r.BackupLimit = amount
	case AllocationLimit:
		r.AllocationLimit = amount
	}
}

// Map returns the non-zero limits keyed by type.
func (r Resources) Map() map[ResourceType]int64 {
	m := make(map[ResourceType]int64)
	for _, t := range ResourceTypes {
		if v := r.Get(t); v > 0 {
			m[t] = v
		}
	}
	return m
}
