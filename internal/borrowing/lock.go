package borrowing

import "sync"

// bookLocks は書籍ID単位の排他区間を提供する。
// 「在庫確認 → 重複確認 → 記録作成 → 在庫減算」の列を同一書籍について
// 直列化するために使う。エントリは参照カウントで管理し、未使用になったら捨てる
type bookLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newBookLocks() *bookLocks {
	return &bookLocks{entries: make(map[string]*lockEntry)}
}

// lock は bookID のロックを取得し、解放用の関数を返す
func (l *bookLocks) lock(bookID string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[bookID]
	if !ok {
		e = &lockEntry{}
		l.entries[bookID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, bookID)
		}
		l.mu.Unlock()
	}
}
