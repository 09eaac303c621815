package enum

// StoreAction is an entry kind in the store hours log
type StoreAction string

const (
	StoreActionOpen  StoreAction = "open"
	StoreActionClose StoreAction = "close"
)

func (a StoreAction) IsValid() bool {
	return a == StoreActionOpen || a == StoreActionClose
}
