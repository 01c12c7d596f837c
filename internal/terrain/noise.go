package terrain

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3   // Количество октав
)

// heightNoise обёртка над шумом Перлина со своим сидом
type heightNoise struct {
	p *perlin.Perlin
}

func newHeightNoise(seed int64) heightNoise {
	return heightNoise{p: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)}
}

// at возвращает значение шума для указанных координат (от 0 до 1)
func (n heightNoise) at(x, y float64) float64 {
	// Получаем значение шума (от -1 до 1)
	v := n.p.Noise2D(x, y)

	// Преобразуем в диапазон от 0 до 1
	v = (v + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
