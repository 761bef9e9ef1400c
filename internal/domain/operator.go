package domain

import "time"

// Operator is a staff account allowed to manage inventory.
type Operator struct {
	ID        int64     `json:"id,string" form:"id"`
	Email     string    `gorm:"uniqueIndex;size:128" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	Name      string    `json:"name" form:"name"`
	Level     string    `gorm:"size:32" json:"level" form:"level"` // user | admin
	Status    string    `gorm:"size:32" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Operator) TableName() string {
	return "sys_operator"
}

// OprLog records a mutating operation performed by an operator.
type OprLog struct {
	ID        int64     `json:"id,string"`
	OprName   string    `json:"opr_name"`
	OprIp     string    `json:"opr_ip"`
	OptAction string    `json:"opt_action"`
	OptDesc   string    `json:"opt_desc"`
	OptTime   time.Time `json:"opt_time"`
}

// TableName Specify table name
func (OprLog) TableName() string {
	return "sys_opr_log"
}
