package pkg

import "blockgen"

func AssertNoError(err error) {
	if err != nil {
		blockgen.Logger.Error().Err(err).Msg("Error occurred that should not have occurred.")
		panic(err)
	}
}
