package storefront

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

type PromotionType string

const (
	PromotionPercentage PromotionType = "percentage"
	PromotionFixed      PromotionType = "fixed"
)

type PromotionStatus string

const (
	PromotionActive    PromotionStatus = "active"
	PromotionInactive  PromotionStatus = "inactive"
	PromotionScheduled PromotionStatus = "scheduled"
)

type SetStatus string

const (
	SetActive   SetStatus = "active"
	SetInactive SetStatus = "inactive"
)

var (
	validProductStatus   = map[ProductStatus]bool{ProductActive: true, ProductInactive: true}
	validPromotionType   = map[PromotionType]bool{PromotionPercentage: true, PromotionFixed: true}
	validPromotionStatus = map[PromotionStatus]bool{PromotionActive: true, PromotionInactive: true, PromotionScheduled: true}
	validSetStatus       = map[SetStatus]bool{SetActive: true, SetInactive: true}
)

func (s ProductStatus) Valid() bool   { return validProductStatus[s] }
func (t PromotionType) Valid() bool   { return validPromotionType[t] }
func (s PromotionStatus) Valid() bool { return validPromotionStatus[s] }
func (s SetStatus) Valid() bool       { return validSetStatus[s] }
