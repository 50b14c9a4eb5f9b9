package workflow

import "context"

// forEachBatch splits items into order-preserving batches of size and
// calls fn for each. After every CooldownEvery batches, when more remain,
// it pauses for the configured cooldown. Only ctx cancellation stops it.
func forEachBatch[T any](
	ctx context.Context,
	rt *Runtime,
	stage string,
	items []T,
	size int,
	progress Progress,
	fn func(ctx context.Context, batch []T),
) error {
	size = max(size, 1)
	total := (len(items) + size - 1) / size
	every := max(rt.Config.CooldownEvery, 1)
	logger := rt.logger().With("stage", stage)

	for n := range total {
		if err := ctx.Err(); err != nil {
			return err
		}

		lo := n * size
		hi := min(lo+size, len(items))

		progress.report("%s: batch %d of %d (%d items)", stage, n+1, total, hi-lo)
		fn(ctx, items[lo:hi])
		progress.report("%s: batch %d of %d complete", stage, n+1, total)

		if (n+1)%every == 0 && n+1 < total {
			cooldown := rt.Config.CooldownDuration()
			progress.report("%s: cooling down for %s", stage, cooldown)
			logger.InfoContext(ctx, "cooldown", "after_batch", n+1, "duration", cooldown)

			if err := rt.clock().Sleep(ctx, cooldown); err != nil {
				return err
			}
		}
	}

	return nil
}
