package app

import (
	studentrepo "github.com/yungbote/neurobridge-tutor/internal/data/repos/student"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

type Repos struct {
	Profile studentrepo.ProfileRepo
}

func wireRepos(log *logger.Logger, clients Clients) Repos {
	if clients.DB == nil {
		return Repos{}
	}
	log.Info("Wiring repos...")
	return Repos{
		Profile: studentrepo.NewProfileRepo(clients.DB.DB(), log),
	}
}
