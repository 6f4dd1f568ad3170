package counter

type Counter struct {
	Name  string `gorm:"primaryKey;column:name"`
	Value int64  `gorm:"column:value;not null;default:0"`
}

func (Counter) TableName() string {
	return "counters"
}
