package models

type Customer struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CPF       string `gorm:"type:varchar(11);not null;uniqueIndex" json:"cpf"`
	FirstName string `gorm:"type:varchar(60);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(60);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(120);not null" json:"email"`
}

func (Customer) TableName() string {
	return "customer"
}
