package donor

import (
	"github.com/smallbiznis/donara/internal/donor/repository"
	"github.com/smallbiznis/donara/internal/donor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
