package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами
type Vec3 struct {
	X int
	Y int
	Z int
}

// Column возвращает координаты колонки (X, Z), отбрасывая высоту
func (v Vec3) Column() Vec2 {
	return Vec2{
		X: v.X,
		Y: v.Z,
	}
}

// InBox проверяет, лежит ли точка в параллелепипеде [0,w)x[0,h)x[0,w)
func (v Vec3) InBox(width, height int) bool {
	return v.X >= 0 && v.X < width &&
		v.Y >= 0 && v.Y < height &&
		v.Z >= 0 && v.Z < width
}
