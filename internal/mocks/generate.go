package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FantasyRepository --dir ../domain/rider --output domain/rider --outpkg ridermock --filename fantasy_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StartlistRepository --dir ../domain/rider --output domain/rider --outpkg ridermock --filename startlist_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ProfileRepository --dir ../domain/rider --output domain/rider --outpkg ridermock --filename profile_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/race --output domain/race --outpkg racemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RaceDataLoader --dir ../usecase --output usecase --outpkg usecasemock --filename race_data_loader_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RiderDataProvider --dir ../usecase --output usecase --outpkg usecasemock --filename rider_data_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RiderMatcher --dir ../usecase --output usecase --outpkg usecasemock --filename rider_matcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PipelineRunner --dir ../usecase --output usecase --outpkg usecasemock --filename pipeline_runner_mock.go
