// Package watchlist implements the Watchlist Store: the single authoritative
// owner of the user's watchlists and of the storage slot that mirrors them.
//
// The store hydrates once from its slot when opened and is authoritative
// afterwards. Every mutating operation runs to completion, including a full
// write-through of the whole collection, while holding the store lock, so
// operations are observed in the order they acquire it.
//
// Invalid input (blank names, unknown watchlist IDs, duplicate members) is a
// silent no-op. The only error a mutation returns is *PersistError, raised
// when the slot rejects the write; the in-memory change is kept and the next
// operation retries the write.
package watchlist
