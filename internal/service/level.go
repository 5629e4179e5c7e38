package service

// LevelThreshold 等级门槛，MinXp 为进入该等级所需的累计经验
type LevelThreshold struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	MinXp int    `json:"minXp"`
}

// LevelThresholds 30 级等级表，与客户端展示保持一致
var LevelThresholds = []LevelThreshold{
	{Level: 1, Name: "Novato", MinXp: 0},
	{Level: 2, Name: "Aprendiz", MinXp: 100},
	{Level: 3, Name: "Curioso", MinXp: 250},
	{Level: 4, Name: "Estudiante", MinXp: 450},
	{Level: 5, Name: "Explorador", MinXp: 750},
	{Level: 6, Name: "Explorador II", MinXp: 1150},
	{Level: 7, Name: "Explorador III", MinXp: 1650},
	{Level: 8, Name: "Aventurero", MinXp: 2250},
	{Level: 9, Name: "Aventurero II", MinXp: 3000},
	{Level: 10, Name: "Constructor", MinXp: 4000},
	{Level: 11, Name: "Constructor II", MinXp: 5250},
	{Level: 12, Name: "Constructor III", MinXp: 6750},
	{Level: 13, Name: "Arquitecto", MinXp: 8500},
	{Level: 14, Name: "Arquitecto II", MinXp: 10500},
	{Level: 15, Name: "Innovador", MinXp: 13000},
	{Level: 16, Name: "Innovador II", MinXp: 16000},
	{Level: 17, Name: "Innovador III", MinXp: 19500},
	{Level: 18, Name: "Visionario", MinXp: 23500},
	{Level: 19, Name: "Visionario II", MinXp: 28000},
	{Level: 20, Name: "Líder", MinXp: 33000},
	{Level: 21, Name: "Líder II", MinXp: 39000},
	{Level: 22, Name: "Líder III", MinXp: 46000},
	{Level: 23, Name: "Estratega", MinXp: 54000},
	{Level: 24, Name: "Estratega II", MinXp: 63000},
	{Level: 25, Name: "CEO Junior", MinXp: 75000},
	{Level: 26, Name: "CEO Junior Elite", MinXp: 90000},
	{Level: 27, Name: "CEO Junior Master", MinXp: 110000},
	{Level: 28, Name: "CEO Junior Legend", MinXp: 140000},
	{Level: 29, Name: "CEO Junior Champion", MinXp: 180000},
	{Level: 30, Name: "Fundador", MinXp: 230000},
}

// CalculateLevel 取累计经验能达到的最高等级
func CalculateLevel(xpTotal int) int {
	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if xpTotal >= LevelThresholds[i].MinXp {
			return LevelThresholds[i].Level
		}
	}
	return 1
}

func LevelName(level int) string {
	for _, t := range LevelThresholds {
		if t.Level == level {
			return t.Name
		}
	}
	return "Novato"
}

// XpForNextLevel 距下一级还差多少经验，满级返回 0
func XpForNextLevel(xpTotal int) int {
	for _, t := range LevelThresholds {
		if xpTotal < t.MinXp {
			return t.MinXp - xpTotal
		}
	}
	return 0
}
