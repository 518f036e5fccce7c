package contracts

// TeamGenerator partitions a pool of players into teams
// ⭐ SSOT: 팀 편성 인터페이스
type TeamGenerator interface {
	Generate(pool []Player, req TeamRequest) (TeamSet, error)
}
