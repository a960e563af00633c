// Package observable は複数の読み手が監視できる共有状態を提供します。
//
// Valueは最新のスナップショットを保持する。購読者は現在のスナップショットを
// すぐに受け取り、以後は更新のたびに受け取る。購読者ごとのバッファは1件で、
// 読み出しが遅れた場合は未読のスナップショットを新しいものに置き換える。
// 書き込み側はブロックされない。
//
// 保存した値は読み手の間で共有されるため変更しないこと。
package observable

import (
	"context"
	"sync"
)

type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[chan T]struct{}
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[chan T]struct{}),
	}
}

func (v *Value[T]) Load() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Store はxをすべての購読者に通知します
func (v *Value[T]) Store(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = x
	for ch := range v.subs {
		offer(ch, x)
	}
}

// Update はロックを保持したまま現在のスナップショットにfnを適用し、結果を通知します
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	for ch := range v.subs {
		offer(ch, v.current)
	}
	return v.current
}

// Subscribe は現在のスナップショットと以後の更新を流すチャネルを返します。
// ctxが終了するとチャネルを閉じる
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	ch <- v.current
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}

// Subscribers は有効な購読の数を返します
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// offer はロックを保持した状態で呼び出すこと。送信側は必ずロックを保持するため、
// 取り出した後のバッファは空いている
func offer[T any](ch chan T, x T) {
	select {
	case <-ch:
	default:
	}
	ch <- x
}
