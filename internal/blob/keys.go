package blob

import "fmt"

const (
	// Cart ledger per session: zander-store-cart:{session_id} -> JSON []CartItem
	KeyCart = "zander-store-cart:%s"

	// Favorites per session: zander-store-favorites:{session_id} -> JSON []Product
	KeyFavorites = "zander-store-favorites:%s"

	// Reviews of every product in one collection -> JSON []Review
	KeyReviews = "zander-store-reviews"
)

func CartKey(sessionID string) string { return fmt.Sprintf(KeyCart, sessionID) }

func FavoritesKey(sessionID string) string { return fmt.Sprintf(KeyFavorites, sessionID) }
