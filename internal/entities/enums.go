package entities

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleManager    UserRole = "MANAGER"
	RoleTechnician UserRole = "TECHNICIAN"
	RoleEmployee   UserRole = "EMPLOYEE"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleEmployee:
		return true
	}
	return false
}

type RequestType string

const (
	RequestCorrective RequestType = "CORRECTIVE"
	RequestPreventive RequestType = "PREVENTIVE"
)

func (t RequestType) Valid() bool {
	return t == RequestCorrective || t == RequestPreventive
}

type RequestPriority string

const (
	PriorityLow      RequestPriority = "LOW"
	PriorityMedium   RequestPriority = "MEDIUM"
	PriorityHigh     RequestPriority = "HIGH"
	PriorityCritical RequestPriority = "CRITICAL"
)

func (p RequestPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type RequestStage string

const (
	StageNew        RequestStage = "NEW"
	StageInProgress RequestStage = "IN_PROGRESS"
	StageRepaired   RequestStage = "REPAIRED"
	StageScrap      RequestStage = "SCRAP"
)

func (s RequestStage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// ActiveStages are the stages that count towards open work.
var ActiveStages = []RequestStage{StageNew, StageInProgress}

// stageOrder ranks stages along the normal flow; SCRAP and REPAIRED are both terminal.
var stageOrder = map[RequestStage]int{
	StageNew:        0,
	StageInProgress: 1,
	StageRepaired:   2,
	StageScrap:      2,
}

// IsRegression reports whether moving from s to next goes backwards in the flow.
func (s RequestStage) IsRegression(next RequestStage) bool {
	return stageOrder[next] < stageOrder[s]
}

type EquipmentStatus string

const (
	StatusActive           EquipmentStatus = "ACTIVE"
	StatusUnderMaintenance EquipmentStatus = "UNDER_MAINTENANCE"
	StatusScrap            EquipmentStatus = "SCRAP"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusUnderMaintenance, StatusScrap:
		return true
	}
	return false
}
