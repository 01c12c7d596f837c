package vec

// Vec2 представляет 2D координаты колонки (X, Z) внутри региона
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// InSquare проверяет, лежит ли точка в квадрате [0,size)x[0,size)
func (v Vec2) InSquare(size int) bool {
	return v.X >= 0 && v.X < size && v.Y >= 0 && v.Y < size
}

// Neighbours возвращает смещения колонки и 8 её соседей, начиная с (-1,-1).
// Центральная колонка (0,0) входит в результат.
func Neighbours() [9]Vec2 {
	var out [9]Vec2
	i := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			out[i] = Vec2{X: dx, Y: dy}
			i++
		}
	}
	return out
}
