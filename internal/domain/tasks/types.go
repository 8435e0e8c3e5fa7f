package tasks

// Category clasifica el care item.
// @Enum medication, food, supplement, other
type Category string

const (
	CategoryMedication Category = "medication"
	CategoryFood       Category = "food"
	CategorySupplement Category = "supplement"
	CategoryOther      Category = "other"
)
