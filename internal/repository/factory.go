package repository

// NewMemoryRepositories wires all three repositories onto a single
// in-memory store instance.
func NewMemoryRepositories() (UsersRepositoryI, HabitsRepositoryI, CompletionsRepositoryI) {
	store := NewMemoryStore()
	return store, store.Habits(), store.Completions()
}

// NewPostgresRepositories wires the repositories onto postgres pools
// built from cfg.
func NewPostgresRepositories(cfg DBConfig) (UsersRepositoryI, HabitsRepositoryI, CompletionsRepositoryI) {
	return NewUsersRepo(cfg), NewHabitsRepo(cfg), NewCompletionsRepo(cfg)
}
