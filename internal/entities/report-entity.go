package entities

type CountStat struct {
	Count uint64 `json:"count"`
	Label string `json:"label"`
}

type LoadStat struct {
	Percentage int    `json:"percentage"`
	Label      string `json:"label"`
	Details    string `json:"details"`
}

type Stats struct {
	CriticalEquipment CountStat `json:"critical_equipment"`
	TechnicianLoad    LoadStat  `json:"technician_load"`
	OpenRequests      CountStat `json:"open_requests"`
}
