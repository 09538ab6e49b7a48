// Package controller connects the model to its two view pipelines.
//
// EditingController keeps the editing view in sync with the model by
// converting every model change batch. DataController serializes model
// roots to HTML and loads HTML back into the model.
package controller
