package navmesh

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/annel0/voxel-navmesh/internal/voxel"
)

// BuildAll строит независимые регионы параллельно, не более workers одновременно
// (при workers <= 0 без ограничения). Порядок результата совпадает с regions.
// Отмена ctx прекращает запуск ещё не начатых построений.
func (b *Builder) BuildAll(ctx context.Context, regions []*voxel.Region, workers int) ([]*NavMesh, error) {
	out := make([]*NavMesh, len(regions))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, region := range regions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := b.Build(ctx, region)
			if err != nil {
				return fmt.Errorf("region %+v: %w", region.Origin(), err)
			}
			out[i] = mesh
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
