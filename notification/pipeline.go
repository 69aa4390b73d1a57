package notification

import (
	"context"
	"sync"

	"myregistry/domain"
)

const mergeBufferCap = 128

// Merge fans several notification streams into one. Each input keeps its own order; markers
// go through merger so the output shows a single refresh window across all inputs. A nil merger
// forwards markers unchanged.
//
// The output closes when every input is closed or ctx is done.
func Merge(ctx context.Context, merger *BufferMerger, inputs ...<-chan domain.ChangeNotification) <-chan domain.ChangeNotification {
	fanIn := make(chan domain.ChangeNotification, mergeBufferCap)
	var wg sync.WaitGroup
	wg.Add(len(inputs))
	for _, in := range inputs {
		go func(in <-chan domain.ChangeNotification) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case n, ok := <-in:
					if !ok {
						return
					}
					select {
					case fanIn <- n:
					case <-ctx.Done():
						return
					}
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(fanIn)
	}()

	out := make(chan domain.ChangeNotification, mergeBufferCap)
	go func() {
		defer close(out)
		for n := range fanIn {
			if merger != nil {
				var ok bool
				if n, ok = merger.Apply(n); !ok {
					continue
				}
			}
			select {
			case out <- n:
			case <-ctx.Done():
				// keep draining fanIn so the input goroutines can exit
			}
		}
	}()
	return out
}
