package api

import (
	"github.com/evglabs/superdeck/internal/constants"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the battle endpoints under the /api prefix.
func NewRouter(handler *BattleHandler) *gin.Engine {
	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.POST(constants.RouteBattles, handler.StartBattle)
		apiRoutes.GET(constants.RouteBattleByID, handler.GetBattle)
		apiRoutes.POST(constants.RouteBattleAction, handler.SubmitAction)
		apiRoutes.POST(constants.RouteBattleAuto, handler.ToggleAutoPlay)
		apiRoutes.GET(constants.RouteBattleEvents, handler.GetEvents)

		apiRoutes.POST(constants.RoutePlayers, handler.RegisterPlayer)
		apiRoutes.GET(constants.RoutePlayerCharacters, handler.ListPlayerCharacters)
		apiRoutes.POST(constants.RouteCharacters, handler.CreateCharacter)

		apiRoutes.GET(constants.RouteLeaderboard, handler.Leaderboard)
		apiRoutes.GET(constants.RouteCharacterByID, handler.GetCharacter)
		apiRoutes.GET(constants.RouteVersion, Version)
	}

	return router
}
