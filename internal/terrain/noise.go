package terrain

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"

	"treeplacer/internal/config"
	"treeplacer/internal/scatter"
)

// NoiseGenerator creates repeatable heightfields using hashed value noise.
type NoiseGenerator struct {
	cfg  config.TerrainConfig
	seed int64
}

func NewNoiseGenerator(cfg config.TerrainConfig) *NoiseGenerator {
	return &NoiseGenerator{
		cfg:  cfg,
		seed: cfg.Seed,
	}
}

func (g *NoiseGenerator) bounds() scatter.Bounds {
	return scatter.Bounds{
		Width:     g.cfg.Width,
		Depth:     g.cfg.Depth,
		MaxHeight: g.cfg.MaxHeight,
	}
}

func (g *NoiseGenerator) surfaceRatio() float64 {
	ratio := g.cfg.SurfaceRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.35
	}
	return ratio
}

func (g *NoiseGenerator) amplitudeRatio() float64 {
	if g.cfg.AmplitudeRatio > 0 {
		return g.cfg.AmplitudeRatio
	}
	return 0.25
}

// sampleHeight maps fractal noise at world (x, z) into [0, MaxHeight].
func (g *NoiseGenerator) sampleHeight(x, z float64) float64 {
	noise := g.fractalNoise(x, z)
	height := (g.surfaceRatio() + noise*g.amplitudeRatio()) * g.cfg.MaxHeight
	return clampFloat(height, 0, g.cfg.MaxHeight)
}

// Generate samples every grid row in parallel and assembles the heightfield.
func (g *NoiseGenerator) Generate(ctx context.Context) (*Heightfield, error) {
	bounds := g.bounds()
	resolution := g.cfg.Resolution
	if resolution < 2 {
		return nil, fmt.Errorf("terrain resolution %d must be at least 2", resolution)
	}

	log.Printf("heightfield generation progress: 0%%")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stepX := bounds.Width / float64(resolution-1)
	stepZ := bounds.Depth / float64(resolution-1)
	heights := make([]float64, resolution*resolution)

	type rowResult struct {
		row int
		err error
	}

	workers := g.workerCount(resolution)
	rows := make(chan int, workers)
	results := make(chan rowResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				if err := ctx.Err(); err != nil {
					select {
					case results <- rowResult{err: err}:
					default:
					}
					return
				}

				// Each row owns a disjoint slice of heights.
				z := float64(row) * stepZ
				offset := row * resolution
				for ix := 0; ix < resolution; ix++ {
					heights[offset+ix] = g.sampleHeight(float64(ix)*stepX, z)
				}

				select {
				case results <- rowResult{row: row}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(rows)
		for row := 0; row < resolution; row++ {
			select {
			case <-ctx.Done():
				return
			case rows <- row:
			}
		}
	}()

	generatedRows := 0
	nextLogPercent := 10
	for result := range results {
		if result.err != nil {
			cancel()
			return nil, result.err
		}

		generatedRows++
		progress := generatedRows * 100 / resolution
		if progress >= nextLogPercent {
			log.Printf("heightfield generation progress: %d%%", progress)
			nextLogPercent = ((progress / 10) + 1) * 10
		}
	}

	if generatedRows < resolution {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("heightfield generation stopped after %d of %d rows", generatedRows, resolution)
	}

	return NewHeightfield(bounds, resolution, heights)
}

func (g *NoiseGenerator) fractalNoise(x, y float64) float64 {
	frequency := g.cfg.Frequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < g.cfg.Octaves; i++ {
		noise := g.valueNoise(x*frequency, y*frequency)
		noiseSum += noise * amplitude
		maxAmplitude += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

func (g *NoiseGenerator) valueNoise(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	ix0 := lerp(random2D(x0, y0, g.seed), random2D(x1, y0, g.seed), sx)
	ix1 := lerp(random2D(x0, y1, g.seed), random2D(x1, y1, g.seed), sx)
	return lerp(ix0, ix1, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// random2D hashes a lattice point into [-1, 1).
func random2D(x, y int, seed int64) float64 {
	return float64(hash3(x, y, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (g *NoiseGenerator) workerCount(rows int) int {
	if rows <= 0 {
		return 1
	}
	if g.cfg.Workers > 0 {
		return min(g.cfg.Workers, rows)
	}
	return max(min(runtime.GOMAXPROCS(0)*2, rows), 1)
}
